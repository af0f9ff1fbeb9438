// Package web implements the HTTP interface: sign-in/sign-out, the workbook listing and the
// worksheet table view.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
	"github.com/uhppoted/uhppoted-app-sheetview/registry"
	"github.com/uhppoted/uhppoted-app-sheetview/session"
	"github.com/uhppoted/uhppoted-app-sheetview/web/html"
)

const APP = "Sheetview"

type server struct {
	registry  *registry.Registry
	store     session.Store
	templates *template.Template
	log       *zap.SugaredLogger
}

type listing struct {
	Title     string
	User      string
	Workbooks []workbook
}

type workbook struct {
	ID     string
	Title  string
	Sheets []sheet
}

type sheet struct {
	Name string
	Link string
}

type table struct {
	Title     string
	SheetName string
	Columns   []string
	Rows      [][]string
}

func NewServer(r *registry.Registry, store session.Store, log *zap.SugaredLogger) (http.Handler, error) {
	templates, err := template.ParseFS(html.HTML, "*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML templates (%w)", err)
	}

	s := server{
		registry:  r,
		store:     store,
		templates: templates,
		log:       log,
	}

	router := mux.NewRouter()

	router.PathPrefix("/css/").Handler(http.FileServer(http.FS(html.HTML))).Methods(http.MethodGet)
	router.HandleFunc("/sign-in", s.signIn).Methods(http.MethodPost)
	router.HandleFunc("/sign-out", s.signOut).Methods(http.MethodGet)
	router.HandleFunc("/", s.home).Methods(http.MethodGet)
	router.HandleFunc("/{workbookId}/{sheetName}", s.viewSheet).Methods(http.MethodGet)

	return middleware(router, log), nil
}

func (s *server) signIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		text(w, http.StatusBadRequest, "Error: %v", err)
		return
	}

	username := r.PostForm.Get("username")

	if err := session.SignIn(s.store, w, r, username); err != nil {
		s.log.Warnw("sign-in failed", "error", err)
		text(w, http.StatusInternalServerError, "Error: %v", err)
		return
	}

	s.log.Debugw("signed in", "user", s.store.Get(r).User)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *server) signOut(w http.ResponseWriter, r *http.Request) {
	if err := session.SignOut(s.store, w, r); err != nil {
		s.log.Warnw("sign-out failed", "error", err)
		text(w, http.StatusInternalServerError, "Error: %v", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// home lists the worksheets of every registered workbook for a signed in user. The lists are
// fetched from the spreadsheet service on every request.
func (s *server) home(w http.ResponseWriter, r *http.Request) {
	user := s.store.Get(r)
	if !user.SignedIn() {
		s.render(w, "sign-in.html", map[string]any{"Title": APP})
		return
	}

	page := listing{
		Title:     APP,
		User:      user.User,
		Workbooks: []workbook{},
	}

	for _, entry := range s.registry.Entries() {
		names, err := entry.Workbook.Worksheets(r.Context())
		if err != nil {
			s.log.Warnw("error listing worksheets", "workbook", entry.ID, "error", err)
			text(w, http.StatusInternalServerError, "Error: %v", err)
			return
		}

		wb := workbook{
			ID:     entry.ID,
			Title:  entry.Title,
			Sheets: []sheet{},
		}

		for _, name := range names {
			wb.Sheets = append(wb.Sheets, sheet{
				Name: name,
				Link: "/" + url.PathEscape(entry.ID) + "/" + url.PathEscape(name),
			})
		}

		page.Workbooks = append(page.Workbooks, wb)
	}

	s.render(w, "index.html", page)
}

// viewSheet does not check the session. The error text of a failed read is returned to the
// caller as is.
func (s *server) viewSheet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["workbookId"]
	name := vars["sheetName"]

	entry, ok := s.registry.Lookup(id)
	if !ok {
		text(w, http.StatusNotFound, "Workbook with ID %s not found", id)
		return
	}

	worksheet, err := entry.Workbook.Worksheet(r.Context(), name)
	if err != nil {
		s.log.Warnw("error resolving worksheet", "workbook", id, "sheet", name, "error", err)
		text(w, http.StatusInternalServerError, "Error: %v", err)
		return
	}

	records, err := worksheet.Records(r.Context())
	if err != nil {
		s.log.Warnw("error reading worksheet", "workbook", id, "sheet", name, "error", err)
		text(w, http.StatusInternalServerError, "Error: %v", err)
		return
	}

	columns := gsheets.Columns(records)
	page := table{
		Title:     fmt.Sprintf("%v - %v", entry.Title, name),
		SheetName: name,
		Columns:   columns,
		Rows:      [][]string{},
	}

	for _, record := range records {
		row := []string{}
		for _, v := range record.Cells(columns) {
			row = append(row, gsheets.Format(v))
		}

		page.Rows = append(page.Rows, row)
	}

	s.render(w, "sheet.html", page)
}

func (s *server) render(w http.ResponseWriter, name string, page any) {
	var b bytes.Buffer
	if err := s.templates.ExecuteTemplate(&b, name, page); err != nil {
		s.log.Errorw("error formatting page", "template", name, "error", err)
		http.Error(w, "Error formatting page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func text(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	fmt.Fprintf(w, format, args...)
}
