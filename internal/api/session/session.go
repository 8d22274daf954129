package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "movielib-session"
	userIDKey  = "user_id"
)

// Manager wraps the cookie session store
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a session manager with a week-long cookie lifetime
func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// UserID returns the authenticated user id carried by the request, if any
func (m *Manager) UserID(r *http.Request) (uint, bool) {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		return 0, false
	}
	raw, ok := sess.Values[userIDKey]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case uint:
		return v, true
	case int:
		if v > 0 {
			return uint(v), true
		}
	case int64:
		if v > 0 {
			return uint(v), true
		}
	}
	return 0, false
}

// SignIn stores the user id in a fresh session cookie
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess, _ := m.store.Get(r, cookieName)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut expires the session cookie
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, cookieName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
