package session

import (
	"net/http"

	"github.com/minigarde/portal/shared"
)

// Middleware decodes the session cookie into an explicit *Session carried
// by the request context. Role gates only steer routing; the API is the
// authorization source of truth and re-checks every call.
type Middleware struct {
	Logger *shared.Logger `inject:""`

	CookieName string
}

func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.CookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sess, err := DecodeCookieValue(cookie.Value)
		if err != nil {
			ClearCookie(w, m.CookieName)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), sess)))
	})
}

func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return m.requireRole(next, func(s *Session) bool { return s.IsStaff() })
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.requireRole(next, func(s *Session) bool { return s.IsAdmin() })
}

func (m *Middleware) RequireParent(next http.Handler) http.Handler {
	return m.requireRole(next, func(s *Session) bool { return s.IsParent() })
}

func (m *Middleware) requireRole(next http.Handler, allowed func(*Session) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := FromContext(r.Context())
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !allowed(sess) {
			m.Logger.Warn(r.Context(), "role refused for route", "uri", r.RequestURI)
			http.Error(w, "Accès refusé", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
