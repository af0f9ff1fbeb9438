// Package session tracks the signed-in user for a browser session. The only state is the
// user name; a session with a user is signed in.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookie = "session"
	user   = "user"
)

type Session struct {
	User string
}

func (s Session) SignedIn() bool {
	return s.User != ""
}

type Store interface {
	Get(r *http.Request) Session
	Save(w http.ResponseWriter, r *http.Request, s Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieStore keeps the session in a signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
}

func NewCookieStore(secret string) *CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieStore{
		store: store,
	}
}

// Get returns an empty session if the cookie is missing or cannot be decoded.
func (c *CookieStore) Get(r *http.Request) Session {
	s, err := c.store.Get(r, cookie)
	if err != nil || s == nil {
		return Session{}
	}

	if v, ok := s.Values[user].(string); ok {
		return Session{User: v}
	}

	return Session{}
}

func (c *CookieStore) Save(w http.ResponseWriter, r *http.Request, session Session) error {
	s, _ := c.store.Get(r, cookie)
	s.Values[user] = session.User

	return s.Save(r, w)
}

func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := c.store.Get(r, cookie)
	delete(s.Values, user)

	return s.Save(r, w)
}

// SignIn stores the user name unless the session already has a user, in which case it is
// left unchanged. The user name is not validated.
func SignIn(store Store, w http.ResponseWriter, r *http.Request, username string) error {
	if store.Get(r).SignedIn() {
		return nil
	}

	return store.Save(w, r, Session{User: username})
}

func SignOut(store Store, w http.ResponseWriter, r *http.Request) error {
	return store.Clear(w, r)
}
