package commands

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

func recordsToTSV(f io.Writer, records []gsheets.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	columns := gsheets.Columns(records)

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(columns); err != nil {
		return err
	}

	for _, record := range records {
		row := []string{}
		for _, v := range record.Cells(columns) {
			row = append(row, gsheets.Format(v))
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}
