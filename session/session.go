package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/minigarde/portal/shared"

	"github.com/pkg/errors"
)

const (
	ROLE_SUPER_ADMIN = "super_admin"
	ROLE_ADMIN       = "admin_garderie"
	ROLE_EDUCATOR    = "educatrice"
	ROLE_PARENT      = "parent"
)

var (
	ErrNoSession      = errors.New("no session in context")
	ErrMalformedValue = errors.New("malformed session cookie value")
)

// Session is the authenticated identity the portal carries through every
// request. It is decoded from the session cookie and passed explicitly; the
// remote API re-validates the token on every call, so the portal never has
// to trust any field beyond routing decisions.
type Session struct {
	Token     string `json:"token"`
	UserId    string `json:"userId"`
	Role      string `json:"role"`
	Tenant    string `json:"tenant"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Session) IsParent() bool {
	return s.Role == ROLE_PARENT
}

func (s *Session) IsAdmin() bool {
	return s.Role == ROLE_ADMIN || s.Role == ROLE_SUPER_ADMIN
}

func (s *Session) IsStaff() bool {
	return s.Role == ROLE_EDUCATOR || s.IsAdmin()
}

type contextKey string

const sessionContextKey contextKey = "session"

func NewContext(ctx context.Context, s *Session) context.Context {
	ctx = shared.WithLogFields(ctx, s.Role, s.Tenant)
	return context.WithValue(ctx, sessionContextKey, s)
}

func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// EncodeCookieValue serializes the session for storage in an HttpOnly cookie.
func EncodeCookieValue(s *Session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode session")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCookieValue(value string) (*Session, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedValue, err.Error())
	}
	s := &Session{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, errors.Wrap(ErrMalformedValue, err.Error())
	}
	if s.Token == "" {
		return nil, ErrMalformedValue
	}
	return s, nil
}

func SetCookie(w http.ResponseWriter, name string, s *Session) error {
	value, err := EncodeCookieValue(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
