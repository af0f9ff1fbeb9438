// Package registry holds the set of workbooks opened at startup. A Registry is immutable once
// built and may be shared between request handlers without locking.
package registry

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
)

type Entry struct {
	ID       string
	Title    string
	Workbook gsheets.Workbook
}

type Registry struct {
	entries []Entry
	index   map[string]int
}

// New opens each workbook in turn and fails on the first workbook that cannot be opened.
// Workbook IDs are trimmed before use. A repeated ID is opened once only and keeps its first
// position, so there is one remote call per distinct ID rather than per configured ID.
func New(ctx context.Context, client gsheets.Client, ids []string, log *zap.SugaredLogger) (*Registry, error) {
	r := Registry{
		entries: []Entry{},
		index:   map[string]int{},
	}

	for _, v := range ids {
		id := strings.TrimSpace(v)
		if _, ok := r.index[id]; ok {
			continue
		}

		wb, err := client.Open(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("unable to open workbook '%v' (%w)", id, err)
		}

		log.Infow("opened workbook", "id", id, "title", wb.Title())

		r.index[id] = len(r.entries)
		r.entries = append(r.entries, Entry{
			ID:       id,
			Title:    wb.Title(),
			Workbook: wb,
		})
	}

	return &r, nil
}

// Lookup matches the ID exactly. Caller supplied IDs are not trimmed.
func (r *Registry) Lookup(id string) (Entry, bool) {
	if ix, ok := r.index[id]; ok {
		return r.entries[ix], true
	}

	return Entry{}, false
}

func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)

	return entries
}
