package commands

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

// recordsToXLSX writes the records to a single worksheet workbook. Numeric cells are stored
// as numbers.
func recordsToXLSX(f io.Writer, name string, records []gsheets.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	xlsx := excelize.NewFile()
	defer xlsx.Close()

	sheet := xlsx.GetSheetName(0)
	if name != "" && name != sheet {
		if err := xlsx.SetSheetName(sheet, name); err != nil {
			return fmt.Errorf("invalid worksheet name '%v' (%w)", name, err)
		}

		sheet = name
	}

	columns := gsheets.Columns(records)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	if err := xlsx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, record := range records {
		row := record.Cells(columns)

		for j, v := range row {
			if v == nil {
				row[j] = ""
			}
		}

		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := xlsx.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}

	_, err := xlsx.WriteTo(f)

	return err
}
