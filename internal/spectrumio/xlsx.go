package spectrumio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/RMahshie/xantho/internal/spectro"
)

const sheetName = "Sheet1"

// ReadXLSX reads the first worksheet of a workbook.
func ReadXLSX(r io.Reader) (spectro.Spectrum, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return spectro.Spectrum{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return spectro.Spectrum{}, fmt.Errorf("workbook has no worksheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return spectro.Spectrum{}, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}

// WriteXLSX writes s to a single-sheet workbook with the canonical header.
func WriteXLSX(w io.Writer, s spectro.Spectrum) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{WavelengthHeader, AbsorbanceHeader}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range s.Points() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]interface{}{p.Wavelength, p.Absorbance}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
