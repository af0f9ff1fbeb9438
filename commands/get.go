package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

var GetCmd = Get{
	command: command{
		env:   DEFAULT_ENV,
		debug: false,
	},

	workbook: "",
	sheet:    "",
	file:     time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	workbook string
	sheet    string
	file     string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a worksheet and stores it to a local TSV or XLSX file"
}

func (cmd *Get) Usage() string {
	return "--workbook <id> --sheet <name> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --workbook <ID> --sheet <name> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the records of a Google Sheets worksheet to a TSV file, or to an XLSX file if the")
	fmt.Println("  file extension is .xlsx")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug get --workbook "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`+"\n", APP)
	fmt.Println(`                                   --sheet "Sheet1" \`)
	fmt.Println(`                                   --file "example.xlsx"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.workbook, "workbook", cmd.workbook, "Workbook ID or spreadsheet URL")
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name e.g. 'Sheet1'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV or XLSX file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, logger, err := cmd.configure(options)
	if err != nil {
		return err
	}

	defer logger.Sync()

	// ... check parameters
	if strings.TrimSpace(conf.Credentials) == "" {
		return fmt.Errorf("GSHEETS_CREDENTIALS is not configured")
	}

	if strings.TrimSpace(cmd.workbook) == "" {
		return fmt.Errorf("--workbook is a required option")
	}

	if cmd.sheet == "" {
		return fmt.Errorf("--sheet is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	id := spreadsheetID(cmd.workbook)

	if cmd.debug {
		debugf("spreadsheet - ID:%s  sheet:%s", id, cmd.sheet)
	}

	// ... authorise
	ctx := context.Background()

	client, err := authorize(ctx, conf.Credentials, conf.Tokens, conf.Scopes...)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	// ... fetch records
	wb, err := gsheets.NewGoogleClient(google).Open(ctx, id)
	if err != nil {
		return err
	}

	ws, err := wb.Worksheet(ctx, cmd.sheet)
	if err != nil {
		return err
	}

	records, err := ws.Records(ctx)
	if err != nil {
		return err
	}

	if err := store(cmd.file, ws.Title(), records); err != nil {
		return err
	}

	infof("retrieved %v records from %v/%v to file %s", len(records), wb.Title(), ws.Title(), cmd.file)

	return nil
}

// store writes the records to a temporary file and renames it to the destination once
// complete.
func store(file, sheet string, records []gsheets.Record) error {
	var write func(io.Writer) error

	if strings.EqualFold(filepath.Ext(file), ".xlsx") {
		write = func(w io.Writer) error { return recordsToXLSX(w, sheet, records) }
	} else {
		write = func(w io.Writer) error { return recordsToTSV(w, records) }
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sheetview-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := write(tmp); err != nil {
		return fmt.Errorf("error creating %v (%w)", file, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}
