package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets/gsheetstest"
	"github.com/uhppoted/uhppoted-app-sheetview/registry"
	"github.com/uhppoted/uhppoted-app-sheetview/session"
)

type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	for _, c := range b.cookies {
		r.AddCookie(c)
	}

	rw := httptest.NewRecorder()
	b.handler.ServeHTTP(rw, r)

	for _, c := range rw.Result().Cookies() {
		b.cookies[c.Name] = c
	}

	return rw
}

func (b *browser) signIn(username string) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, "/sign-in", url.Values{"username": {username}})
}

func setup(t *testing.T, books ...gsheetstest.Book) (*browser, *gsheetstest.Client) {
	t.Helper()

	if len(books) == 0 {
		books = []gsheetstest.Book{
			{
				ID:    "WB1",
				Title: "Easy",
				Sheets: []gsheetstest.Sheet{
					{
						Title: "Sheet1",
						Rows: [][]any{
							{"name", "score"},
							{"x", "1"},
							{"y", "2"},
						},
					},
					{
						Title: "Bob's Sheet",
					},
				},
			},
			{ID: "WB2", Title: "Medium", Sheets: []gsheetstest.Sheet{{Title: "Sheet1"}}},
			{ID: "WB3", Title: "Hard"},
		}
	}

	ids := []string{}
	for _, b := range books {
		ids = append(ids, " "+b.ID+" ")
	}

	client := gsheetstest.NewClient(books...)
	log := zap.NewNop().Sugar()

	r, err := registry.New(context.Background(), client, ids, log)
	require.NoError(t, err)

	handler, err := NewServer(r, session.NewCookieStore("qwerty-uiop-asdf-ghjkl"), log)
	require.NoError(t, err)

	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}, client
}

func isSignInForm(body string) bool {
	return strings.Contains(body, `action="/sign-in"`)
}

func TestHomeWithoutSession(t *testing.T) {
	b, client := setup(t)

	rw := b.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.True(t, isSignInForm(rw.Body.String()))
	assert.Equal(t, 0, client.Calls("worksheets"))
}

func TestSignIn(t *testing.T) {
	b, client := setup(t)

	rw := b.signIn("alice")

	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "/", rw.Header().Get("Location"))

	rw = b.do(http.MethodGet, "/", nil)
	body := rw.Body.String()

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.False(t, isSignInForm(body))
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Easy")
	assert.Contains(t, body, "Medium")
	assert.Contains(t, body, "Hard")
	assert.Contains(t, body, `href="/WB1/Sheet1"`)
	assert.Contains(t, body, `href="/WB1/Bob%27s%20Sheet"`)
	assert.Contains(t, body, `href="/WB2/Sheet1"`)
	assert.Equal(t, 3, client.Calls("worksheets"))
}

func TestHomeListsWorksheetsOnEveryRequest(t *testing.T) {
	b, client := setup(t)

	b.signIn("alice")
	b.do(http.MethodGet, "/", nil)
	b.do(http.MethodGet, "/", nil)

	assert.Equal(t, 6, client.Calls("worksheets"))
}

func TestSignInWhenSignedIn(t *testing.T) {
	b, _ := setup(t)

	b.signIn("alice")
	rw := b.signIn("bob")

	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "/", rw.Header().Get("Location"))

	body := b.do(http.MethodGet, "/", nil).Body.String()

	assert.Contains(t, body, "alice")
	assert.NotContains(t, body, "bob")
}

func TestSignOut(t *testing.T) {
	b, _ := setup(t)

	b.signIn("alice")
	rw := b.do(http.MethodGet, "/sign-out", nil)

	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "/", rw.Header().Get("Location"))

	rw = b.do(http.MethodGet, "/", nil)
	assert.True(t, isSignInForm(rw.Body.String()))

	// ... and can sign in again as someone else
	b.signIn("bob")
	assert.Contains(t, b.do(http.MethodGet, "/", nil).Body.String(), "bob")
}

func TestSignOutWithoutSession(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/sign-out", nil)

	assert.Equal(t, http.StatusFound, rw.Code)
	assert.True(t, isSignInForm(b.do(http.MethodGet, "/", nil).Body.String()))
}

func TestHomeWithWorksheetListError(t *testing.T) {
	b, _ := setup(t, gsheetstest.Book{ID: "WB1", Title: "Easy", Err: errors.New("googleapi: Error 503: backend unavailable")})

	b.signIn("alice")
	rw := b.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, rw.Body.String(), "backend unavailable")
}

func TestViewSheet(t *testing.T) {
	b, client := setup(t)

	rw := b.do(http.MethodGet, "/WB1/Sheet1", nil)
	body := rw.Body.String()

	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, body, "<h1>Sheet1</h1>")
	assert.Contains(t, body, "<th>name</th><th>score</th>")
	assert.Contains(t, body, "<td>x</td><td>1</td>")
	assert.Contains(t, body, "<td>y</td><td>2</td>")
	assert.Less(t, strings.Index(body, "<td>x</td>"), strings.Index(body, "<td>y</td>"), "rows should be in sheet order")

	assert.Equal(t, 1, client.Calls("worksheet"))
	assert.Equal(t, 1, client.Calls("records"))

	b.do(http.MethodGet, "/WB1/Sheet1", nil)

	assert.Equal(t, 2, client.Calls("worksheet"))
	assert.Equal(t, 2, client.Calls("records"))
}

func TestViewSheetWithEscapedName(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/WB1/Bob%27s%20Sheet", nil)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "Bob&#39;s Sheet")
}

func TestViewSheetWithUnknownWorkbook(t *testing.T) {
	b, client := setup(t)
	opened := client.Calls("")

	rw := b.do(http.MethodGet, "/WBX/Sheet1", nil)

	assert.Equal(t, http.StatusNotFound, rw.Code)
	assert.Equal(t, "Workbook with ID WBX not found", rw.Body.String())
	assert.Equal(t, opened, client.Calls(""), "unexpected remote call for unknown workbook")
}

// Workbook IDs are trimmed when the registry is built but not when looked up.
func TestViewSheetWithUntrimmedWorkbookID(t *testing.T) {
	b, client := setup(t)
	opened := client.Calls("")

	for _, path := range []string{"/%20WB1/Sheet1", "/WB1%20/Sheet1", "/%20WB1%20/Sheet1"} {
		rw := b.do(http.MethodGet, path, nil)

		assert.Equal(t, http.StatusNotFound, rw.Code, "path %v", path)
	}

	assert.Equal(t, opened, client.Calls(""))
}

func TestViewSheetWithUnknownWorksheet(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/WB1/Sheet2", nil)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Equal(t, "Error: worksheet not found (Sheet2)", rw.Body.String())
}

func TestViewSheetWithReadError(t *testing.T) {
	b, _ := setup(t, gsheetstest.Book{ID: "WB1", Title: "Easy", Err: errors.New("googleapi: Error 403: The caller does not have permission")})

	rw := b.do(http.MethodGet, "/WB1/Sheet1", nil)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, rw.Body.String(), "The caller does not have permission")
}

func TestViewSheetWithHeterogeneousRows(t *testing.T) {
	b, _ := setup(t, gsheetstest.Book{
		ID:    "WB1",
		Title: "Easy",
		Sheets: []gsheetstest.Sheet{
			{
				Title: "Sheet1",
				Rows: [][]any{
					{"name", "", "score"},
					{"x"},
					{"y", "?", "2.5", "extra"},
				},
			},
		},
	})

	rw := b.do(http.MethodGet, "/WB1/Sheet1", nil)
	body := rw.Body.String()

	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, body, "<th>name</th><th></th><th>score</th><th></th>")
	assert.Contains(t, body, "<td>x</td><td></td><td></td><td></td>")
	assert.Contains(t, body, "<td>y</td><td>?</td><td>2.5</td><td>extra</td>")
}

func TestViewSheetWithRecordsError(t *testing.T) {
	b, client := setup(t, gsheetstest.Book{
		ID:    "WB1",
		Title: "Easy",
		Sheets: []gsheetstest.Sheet{
			{Title: "Sheet1", Err: errors.New("googleapi: Error 500: Internal error encountered., backendError")},
		},
	})

	rw := b.do(http.MethodGet, "/WB1/Sheet1", nil)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Equal(t, "Error: googleapi: Error 500: Internal error encountered., backendError", rw.Body.String())
	assert.Equal(t, 1, client.Calls("worksheet"))
	assert.Equal(t, 1, client.Calls("records"))
}

func TestViewSheetWithNumericCells(t *testing.T) {
	b, _ := setup(t, gsheetstest.Book{
		ID:    "WB1",
		Title: "Easy",
		Sheets: []gsheetstest.Sheet{
			{
				Title: "Sheet1",
				Rows: [][]any{
					{"card", "ratio", "scaled", "hex", "code"},
					{"12345678901234567890", "1.0", "1e5", "0x1p-2", "007"},
				},
			},
		},
	})

	rw := b.do(http.MethodGet, "/WB1/Sheet1", nil)

	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "<td>12345678901234567890</td><td>1.0</td><td>100000.0</td><td>0x1p-2</td><td>7</td>")
}

func TestRequestID(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/", nil)

	assert.NotEmpty(t, rw.Header().Get("X-Request-Id"))
}

func TestRequestIDWithUnmatchedRoute(t *testing.T) {
	b, _ := setup(t)

	for _, path := range []string{"/WB1/Sheet1/extra", "/sign-in"} {
		rw := b.do(http.MethodGet, path, nil)

		assert.NotEqual(t, http.StatusOK, rw.Code, "path %v", path)
		assert.NotEmpty(t, rw.Header().Get("X-Request-Id"), "path %v", path)
	}
}

func TestStylesheet(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/css/sheetview.css", nil)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "border-collapse")
}

func TestSignInRequiresPOST(t *testing.T) {
	b, _ := setup(t)

	rw := b.do(http.MethodGet, "/sign-in", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rw.Code)
}
