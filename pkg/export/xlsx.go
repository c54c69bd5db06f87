package export

import (
	"fmt"
	"io"

	"github.com/harrisonrobin/reservas/pkg/reservation"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single sheet in an export.
const SheetName = "Reservas"

// Workbook builds a workbook with the table's header row followed by its rows.
// The caller must Close the returned file.
func Workbook(table *reservation.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := writeRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}

	for i, rec := range table.Records() {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := writeRow(f, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if len(table.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Columns))
		if err == nil {
			f.SetColWidth(SheetName, "A", last, 22)
		}
		f.SetPanes(SheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	return f, nil
}

func writeRow(f *excelize.File, rowNum int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// WriteXLSX writes the table as an .xlsx document to w.
func WriteXLSX(w io.Writer, table *reservation.Table) error {
	f, err := Workbook(table)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the table to an .xlsx file at path.
func SaveXLSX(path string, table *reservation.Table) error {
	f, err := Workbook(table)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
