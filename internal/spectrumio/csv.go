package spectrumio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/RMahshie/xantho/internal/spectro"
)

// ReadCSV reads a two-column CSV table.
func ReadCSV(r io.Reader) (spectro.Spectrum, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return spectro.Spectrum{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseRows(rows)
}

// WriteCSV writes s with the canonical header.
func WriteCSV(w io.Writer, s spectro.Spectrum) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{WavelengthHeader, AbsorbanceHeader}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range s.Points() {
		if err := writer.Write([]string{formatNumber(p.Wavelength), formatNumber(p.Absorbance)}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
