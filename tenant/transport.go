package tenant

import (
	"io/ioutil"
	"net/http"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"

	"github.com/pkg/errors"
)

type HandlerFactory struct {
	Service  *Service        `inject:""`
	Renderer *views.Renderer `inject:""`
	Logger   *shared.Logger  `inject:""`
}

type tenantPageData struct {
	Session  *session.Session
	Tenant   api.TenantTransport
	Settings api.SettingsTransport
	Notice   string
	Error    string
}

// Page renders the daycare info and settings page.
func (h *HandlerFactory) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "", "")
}

func (h *HandlerFactory) renderPage(w http.ResponseWriter, r *http.Request, notice, errMessage string) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := tenantPageData{Session: sess, Notice: notice, Error: errMessage}

	info, err := h.Service.Info(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to get tenant info", "error", err.Error())
		if data.Error == "" {
			data.Error = api.Message(err)
		}
	}
	data.Tenant = info

	settings, err := h.Service.Settings(r.Context(), sess)
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to get settings", "error", err.Error())
	}
	data.Settings = settings

	h.Renderer.Render(w, r, "tenant.tmpl", data)
}

// UploadLogo reads the multipart form and forwards the file to the API.
func (h *HandlerFactory) UploadLogo(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		h.renderPage(w, r, "", "Aucun fichier reçu.")
		return
	}
	defer file.Close()

	data, err := ioutil.ReadAll(file)
	if err != nil {
		h.renderPage(w, r, "", "Le fichier n'a pas pu être lu.")
		return
	}

	_, err = h.Service.UploadLogo(r.Context(), sess, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to upload logo", "error", err.Error())
		h.renderPage(w, r, "", logoMessage(err))
		return
	}
	h.renderPage(w, r, "Logo mis à jour.", "")
}

// DeleteLogo removes the current logo.
func (h *HandlerFactory) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.Service.DeleteLogo(r.Context(), sess); err != nil {
		h.Logger.Warn(r.Context(), "failed to delete logo", "error", err.Error())
		h.renderPage(w, r, "", api.Message(err))
		return
	}
	h.renderPage(w, r, "Logo supprimé.", "")
}

// UpdateSettings handles the auto-send time form.
func (h *HandlerFactory) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, "", "Formulaire invalide")
		return
	}

	_, err = h.Service.UpdateAutoSendTime(r.Context(), sess, r.PostFormValue("journal_auto_send_time"))
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to update settings", "error", err.Error())
		if errors.Cause(err) == ErrInvalidTime {
			h.renderPage(w, r, "", "Format invalide — utilisez HH:MM (ex: 16:30).")
			return
		}
		h.renderPage(w, r, "", api.Message(err))
		return
	}
	h.renderPage(w, r, "Heure d'envoi mise à jour.", "")
}

func logoMessage(err error) string {
	if errors.Cause(err) == ErrEmptyLogo {
		return "Le fichier est vide."
	}
	return api.Message(err)
}
