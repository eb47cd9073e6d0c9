package login

import (
	"net/http"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"
)

// HandlerFactory serves the login and logout pages. Credential checking is
// entirely the API's concern; the portal only stores the returned token.
type HandlerFactory struct {
	Auth     api.AuthClient  `inject:""`
	Renderer *views.Renderer `inject:""`
	Logger   *shared.Logger  `inject:""`

	CookieName string
}

type loginPageData struct {
	Error string
}

func (h *HandlerFactory) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, "login.tmpl", loginPageData{})
}

func (h *HandlerFactory) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Render(w, r, "login.tmpl", loginPageData{Error: "Formulaire invalide"})
		return
	}

	resp, err := h.Auth.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.Logger.Warn(r.Context(), "login refused", "error", err.Error())
		h.Renderer.Render(w, r, "login.tmpl", loginPageData{Error: api.Message(err)})
		return
	}

	sess := &session.Session{
		Token:     resp.Token,
		UserId:    resp.UserId,
		Role:      resp.Role,
		Tenant:    resp.Tenant,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
	}
	if err := session.SetCookie(w, h.CookieName, sess); err != nil {
		h.Logger.Err(r.Context(), "failed to set session cookie", "error", err.Error())
		h.Renderer.Render(w, r, "login.tmpl", loginPageData{Error: "Une erreur est survenue. Veuillez réessayer."})
		return
	}

	if sess.IsParent() {
		http.Redirect(w, r, "/portal/journal", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

func (h *HandlerFactory) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.CookieName)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
