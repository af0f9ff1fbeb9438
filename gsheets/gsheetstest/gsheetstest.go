// Package gsheetstest provides an in-memory gsheets.Client for tests. Every method that would
// be a remote call against the Sheets API is counted.
package gsheetstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

type Sheet struct {
	Title string
	Rows  [][]any

	// Err, if set, is returned by Records.
	Err error
}

type Book struct {
	ID     string
	Title  string
	Sheets []Sheet

	// Err, if set, is returned by every call against the workbook after it has been opened.
	Err error
}

type Client struct {
	books map[string]*Book

	sync.Mutex
	calls map[string]int
}

func NewClient(books ...Book) *Client {
	c := Client{
		books: map[string]*Book{},
		calls: map[string]int{},
	}

	for _, b := range books {
		book := b
		c.books[b.ID] = &book
	}

	return &c
}

// Calls returns the number of remote calls of the named kind ("open", "worksheets",
// "worksheet", "records"). An empty kind returns the total.
func (c *Client) Calls(kind string) int {
	c.Lock()
	defer c.Unlock()

	if kind != "" {
		return c.calls[kind]
	}

	total := 0
	for _, n := range c.calls {
		total += n
	}

	return total
}

func (c *Client) called(kind string) {
	c.Lock()
	defer c.Unlock()

	c.calls[kind]++
}

func (c *Client) Open(ctx context.Context, id string) (gsheets.Workbook, error) {
	c.called("open")

	book, ok := c.books[id]
	if !ok {
		return nil, fmt.Errorf("googleapi: Error 404: Requested entity was not found., notFound")
	}

	return &workbook{client: c, book: book}, nil
}

type workbook struct {
	client *Client
	book   *Book
}

func (w *workbook) ID() string {
	return w.book.ID
}

func (w *workbook) Title() string {
	return w.book.Title
}

func (w *workbook) Worksheets(ctx context.Context) ([]string, error) {
	w.client.called("worksheets")

	if w.book.Err != nil {
		return nil, w.book.Err
	}

	list := []string{}
	for _, s := range w.book.Sheets {
		list = append(list, s.Title)
	}

	return list, nil
}

func (w *workbook) Worksheet(ctx context.Context, name string) (gsheets.Worksheet, error) {
	w.client.called("worksheet")

	if w.book.Err != nil {
		return nil, w.book.Err
	}

	for _, s := range w.book.Sheets {
		if s.Title == name {
			return &worksheet{client: w.client, sheet: s}, nil
		}
	}

	return nil, fmt.Errorf("%w (%s)", gsheets.ErrWorksheetNotFound, name)
}

type worksheet struct {
	client *Client
	sheet  Sheet
}

func (w *worksheet) Title() string {
	return w.sheet.Title
}

func (w *worksheet) Records(ctx context.Context) ([]gsheets.Record, error) {
	w.client.called("records")

	if w.sheet.Err != nil {
		return nil, w.sheet.Err
	}

	return gsheets.MakeRecords(w.sheet.Rows), nil
}
