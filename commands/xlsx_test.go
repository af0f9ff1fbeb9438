package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

func TestRecordsToXLSX(t *testing.T) {
	var b bytes.Buffer
	var data = [][]any{
		[]any{"name", "score"},
		[]any{"x", "1"},
		[]any{"y", "2.5"},
		[]any{"", "3"},
	}

	require.NoError(t, recordsToXLSX(&b, "Sheet 1", gsheets.MakeRecords(data)))

	f, err := excelize.OpenReader(&b)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet 1"}, f.GetSheetList())

	rows, err := f.GetRows("Sheet 1")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"name", "score"},
		{"x", "1"},
		{"y", "2.5"},
		{"", "3"},
	}, rows)
}

func TestRecordsToXLSXWithEmptySheet(t *testing.T) {
	var b bytes.Buffer

	assert.Error(t, recordsToXLSX(&b, "Sheet1", []gsheets.Record{}))
}
