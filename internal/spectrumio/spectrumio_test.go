package spectrumio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/xantho/internal/spectro"
)

func sampleSpectrum(t *testing.T) spectro.Spectrum {
	t.Helper()

	var points []spectro.Point
	for i, wl := range spectro.StandardWavelengths() {
		points = append(points, spectro.Point{Wavelength: wl, Absorbance: 0.1 - float64(i)*0.0031})
	}
	s, err := spectro.NewSpectrum(points)
	require.NoError(t, err)
	return s
}

func csvTable(header string, skip float64) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, wl := range spectro.StandardWavelengths() {
		if wl == skip {
			continue
		}
		fmt.Fprintf(&b, "%g,0.010\n", wl)
	}
	return b.String()
}

func swappedTable() string {
	var b strings.Builder
	b.WriteString("Absorbance,Wavelength\n")
	for _, wl := range spectro.StandardWavelengths() {
		fmt.Fprintf(&b, "0.010,%g\n", wl)
	}
	return b.String()
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatXLSX} {
		t.Run(string(f), func(t *testing.T) {
			want := sampleSpectrum(t)

			var buf bytes.Buffer
			require.NoError(t, Write(f, &buf, want))

			got, err := Read(f, &buf)
			require.NoError(t, err)
			assert.Equal(t, want.Points(), got.Points())
		})
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, spectro.ZeroSpectrum()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 27)
	assert.Equal(t, "wavelength_nm,absorbance_au", lines[0])
	assert.Equal(t, "370,0", lines[1])
	assert.Equal(t, "415,0", lines[6])
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantKind spectro.ErrorKind
	}{
		{
			name:  "canonical header",
			input: csvTable("wavelength_nm,absorbance_au", 0),
		},
		{
			name:  "original header labels",
			input: csvTable("Vlnová délka (nm),Absorbance (AU)", 0),
		},
		{
			name:  "columns swapped",
			input: swappedTable(),
		},
		{
			name:    "unknown header",
			input:   csvTable("nm,au", 0),
			wantErr: ErrMissingColumns,
		},
		{
			name:     "missing 476 nm",
			input:    csvTable("wavelength_nm,absorbance_au", 476),
			wantKind: spectro.KindMissingDiagnosticWavelength,
		},
		{
			name:     "extra wavelength",
			input:    csvTable("wavelength_nm,absorbance_au", 0) + "610,0.01\n",
			wantKind: spectro.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ReadCSV(strings.NewReader(tt.input))

			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr))
			case tt.wantKind != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, spectro.KindOf(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, 26, s.Len())
			}
		})
	}
}

func TestReadCSV_DecimalComma(t *testing.T) {
	var b strings.Builder
	b.WriteString("wavelength_nm,absorbance_au\n")
	for _, wl := range spectro.StandardWavelengths() {
		fmt.Fprintf(&b, "%g,\"0,025\"\n", wl)
	}

	s, err := ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, err)
	a, ok := s.Absorbance(476)
	require.True(t, ok)
	assert.Equal(t, 0.025, a)
}

func TestReadCSV_BadNumber(t *testing.T) {
	input := strings.Replace(csvTable("wavelength_nm,absorbance_au", 0), "380,0.010", "380,abc", 1)
	_, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3: absorbance")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("json")
	assert.Error(t, err)
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}
