package gsheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// GoogleClient implements Client over the Google Sheets v4 API.
type GoogleClient struct {
	service *sheets.Service
}

type workbook struct {
	service *sheets.Service
	id      string
	title   string
}

type worksheet struct {
	service *sheets.Service
	id      string
	title   string
}

func NewGoogleClient(service *sheets.Service) *GoogleClient {
	return &GoogleClient{
		service: service,
	}
}

func (c *GoogleClient) Open(ctx context.Context, id string) (Workbook, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(id).Fields("spreadsheetId", "properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet %v (%w)", id, err)
	}

	title := ""
	if spreadsheet.Properties != nil {
		title = spreadsheet.Properties.Title
	}

	return &workbook{
		service: c.service,
		id:      id,
		title:   title,
	}, nil
}

func (w *workbook) ID() string {
	return w.id
}

func (w *workbook) Title() string {
	return w.title
}

func (w *workbook) Worksheets(ctx context.Context) ([]string, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(w.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	list := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			list = append(list, sheet.Properties.Title)
		}
	}

	return list, nil
}

func (w *workbook) Worksheet(ctx context.Context, name string) (Worksheet, error) {
	list, err := w.Worksheets(ctx)
	if err != nil {
		return nil, err
	}

	for _, title := range list {
		if title == name {
			return &worksheet{
				service: w.service,
				id:      w.id,
				title:   title,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w (%s)", ErrWorksheetNotFound, name)
}

func (w *worksheet) Title() string {
	return w.title
}

func (w *worksheet) Records(ctx context.Context) ([]Record, error) {
	response, err := w.service.Spreadsheets.Values.Get(w.id, quote(w.title)).ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return MakeRecords(response.Values), nil
}

// quote returns the sheet name as an A1 range covering the whole sheet.
func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
