// Package spectrumio reads and writes spectra as two-column tables (CSV or XLSX).
package spectrumio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/xantho/internal/spectro"
)

// Canonical header labels written on export
const (
	WavelengthHeader = "wavelength_nm"
	AbsorbanceHeader = "absorbance_au"
)

// Header aliases accepted on import, compared case-insensitively
var (
	wavelengthAliases = []string{WavelengthHeader, "wavelength", "Vlnová délka (nm)"}
	absorbanceAliases = []string{AbsorbanceHeader, "absorbance", "Absorbance (AU)"}
)

// Format is a supported table encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type used when serving or storing f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ErrMissingColumns is returned when the header row lacks a wavelength or absorbance column
var ErrMissingColumns = errors.New("table must contain wavelength and absorbance columns")

// Read decodes a table in format f into a validated spectrum.
func Read(f Format, r io.Reader) (spectro.Spectrum, error) {
	switch f {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return spectro.Spectrum{}, fmt.Errorf("unsupported format: %s", f)
	}
}

// Write encodes s as a table in format f.
func Write(f Format, w io.Writer, s spectro.Spectrum) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

// parseRows turns header + data rows into a spectrum. Blank rows are skipped.
func parseRows(rows [][]string) (spectro.Spectrum, error) {
	if len(rows) < 2 {
		return spectro.Spectrum{}, fmt.Errorf("table must have a header row and at least one data row")
	}

	wlCol, absCol := -1, -1
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case matchesAny(h, wavelengthAliases):
			wlCol = i
		case matchesAny(h, absorbanceAliases):
			absCol = i
		}
	}
	if wlCol < 0 || absCol < 0 {
		return spectro.Spectrum{}, ErrMissingColumns
	}

	points := make([]spectro.Point, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := n + 2
		if wlCol >= len(row) || absCol >= len(row) {
			return spectro.Spectrum{}, fmt.Errorf("row %d: missing cells", line)
		}
		wl, err := parseNumber(row[wlCol])
		if err != nil {
			return spectro.Spectrum{}, fmt.Errorf("row %d: wavelength: %w", line, err)
		}
		abs, err := parseNumber(row[absCol])
		if err != nil {
			return spectro.Spectrum{}, fmt.Errorf("row %d: absorbance: %w", line, err)
		}
		points = append(points, spectro.Point{Wavelength: wl, Absorbance: abs})
	}

	s, err := spectro.NewSpectrum(points)
	if err != nil {
		return spectro.Spectrum{}, fmt.Errorf("invalid spectrum: %w", err)
	}
	return s, nil
}

// parseNumber also accepts a decimal comma, as spreadsheets in cs locale export it.
func parseNumber(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	return strconv.ParseFloat(cell, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func matchesAny(h string, aliases []string) bool {
	for _, a := range aliases {
		if strings.EqualFold(h, a) {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
