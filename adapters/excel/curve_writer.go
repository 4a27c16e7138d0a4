package excel

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"gopwr/domain/power"
)

const curveSheet = "PowerCurve"

// CurveWriter exports power curves as .xlsx workbooks
type CurveWriter struct{}

// NewCurveWriter creates a new curve writer
func NewCurveWriter() *CurveWriter {
	return &CurveWriter{}
}

// WriteFile saves the curve to path.
func (w *CurveWriter) WriteFile(curve *power.PowerCurve, path string) error {
	f, err := w.build(curve)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Printf("[CurveWriter] Wrote %d curve points to %s", len(curve.Points), path)
	return nil
}

// Write streams the curve workbook to out.
func (w *CurveWriter) Write(curve *power.PowerCurve, out io.Writer) error {
	f, err := w.build(curve)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *CurveWriter) build(curve *power.PowerCurve) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", curveSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"n", "power"}
	if curve.Kind == "twoway" {
		header = append(header, "power_a", "power_b")
	}
	if err := f.SetSheetRow(curveSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range curve.Points {
		row := []interface{}{p.N, p.Power}
		if curve.Kind == "twoway" {
			row = append(row, p.PowerA, p.PowerB)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(curveSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
