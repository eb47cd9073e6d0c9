package privacy

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
)

type HandlerFactory struct {
	Service  *Service        `inject:""`
	Renderer *views.Renderer `inject:""`
	Logger   *shared.Logger  `inject:""`
}

type privacyPageData struct {
	Session *session.Session
	Consent api.ConsentTransport
	Notice  string
	Error   string
}

// Page renders the parent's privacy and account page.
func (h *HandlerFactory) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "", "")
}

func (h *HandlerFactory) renderPage(w http.ResponseWriter, r *http.Request, notice, errMessage string) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := privacyPageData{Session: sess, Notice: notice, Error: errMessage}
	consent, err := h.Service.Consent(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to get consent", "error", err.Error())
		if data.Error == "" {
			data.Error = api.Message(err)
		}
	}
	data.Consent = consent

	h.Renderer.Render(w, r, "privacy.tmpl", data)
}

// UpdateConsent is the JSON endpoint behind the photos-consent toggle.
func (h *HandlerFactory) UpdateConsent(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeUpdateConsentEndpoint(h.Service),
		decodeUpdateConsentRequest,
		shared.EncodeResponse200,
		opts...,
	)
}

type updateConsentRequest struct {
	PhotosAccepted bool `json:"photosAccepted"`
}

func makeUpdateConsentEndpoint(svc *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(updateConsentRequest)
		sess, err := session.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		return svc.UpdatePhotosConsent(ctx, sess, req.PhotosAccepted)
	}
}

func decodeUpdateConsentRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request updateConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, err
	}
	return request, nil
}

// ChangePassword handles the password form. Failures re-render the page
// with an inline message, leaving the rest of the page usable.
func (h *HandlerFactory) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, "", "Formulaire invalide")
		return
	}

	err = h.Service.ChangePassword(r.Context(), sess,
		r.PostFormValue("current_password"),
		r.PostFormValue("new_password"),
		r.PostFormValue("confirm_password"))
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to change password", "error", err.Error())
		h.renderPage(w, r, "", passwordMessage(err))
		return
	}
	h.renderPage(w, r, "Mot de passe modifié.", "")
}

// UpdateEmail handles the email form; the API asks for the password again.
func (h *HandlerFactory) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, "", "Formulaire invalide")
		return
	}

	err = h.Service.UpdateEmail(r.Context(), sess, r.PostFormValue("new_email"), r.PostFormValue("password"))
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to update email", "error", err.Error())
		h.renderPage(w, r, "", api.Message(err))
		return
	}
	h.renderPage(w, r, "Courriel mis à jour.", "")
}

// RequestDeletion records an account deletion request; the confirmation
// checkbox is required.
func (h *HandlerFactory) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil || r.PostFormValue("confirm") == "" {
		h.renderPage(w, r, "", "Veuillez confirmer la demande de suppression.")
		return
	}

	if err := h.Service.RequestAccountDeletion(r.Context(), sess); err != nil {
		h.Logger.Err(r.Context(), "failed to request account deletion", "error", err.Error())
		h.renderPage(w, r, "", api.Message(err))
		return
	}
	h.renderPage(w, r, "Demande de suppression enregistrée.", "")
}

// Export streams the parent's personal data workbook.
func (h *HandlerFactory) Export(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	workbook, err := h.Service.Export(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to build data export", "error", err.Error())
		http.Error(w, api.Message(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="mes-donnees.xlsx"`)
	w.Write(workbook)
}

func passwordMessage(err error) string {
	switch errors.Cause(err) {
	case ErrPasswordTooShort:
		return "Le nouveau mot de passe doit contenir au moins 8 caractères."
	case ErrPasswordMismatch:
		return "La confirmation ne correspond pas au nouveau mot de passe."
	}
	return api.Message(err)
}

// EncodeError maps consent endpoint errors onto HTTP statuses.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch errors.Cause(err) {
	case session.ErrNoSession, api.ErrUnauthorized:
		w.WriteHeader(http.StatusUnauthorized)
	case api.ErrServerBadRequest:
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
