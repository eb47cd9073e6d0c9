package documents

import (
	"net/http"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"
)

type HandlerFactory struct {
	Service  *Service        `inject:""`
	Renderer *views.Renderer `inject:""`
	Logger   *shared.Logger  `inject:""`
}

type libraryPageData struct {
	Session    *session.Session
	Documents  []Entry
	Categories []string
	Category   string
	ParentView bool
	Error      string
}

// Library renders the staff document library.
func (h *HandlerFactory) Library(w http.ResponseWriter, r *http.Request) {
	h.renderLibrary(w, r, false)
}

// ParentLibrary renders the parent variant; the API already scopes the
// listing to what the parent may see.
func (h *HandlerFactory) ParentLibrary(w http.ResponseWriter, r *http.Request) {
	h.renderLibrary(w, r, true)
}

func (h *HandlerFactory) renderLibrary(w http.ResponseWriter, r *http.Request, parentView bool) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	category := r.URL.Query().Get("category")
	data := libraryPageData{
		Session:    sess,
		Categories: Categories,
		Category:   category,
		ParentView: parentView,
	}

	entries, err := h.Service.List(r.Context(), sess, category)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to list documents", "error", err.Error())
		data.Error = api.Message(err)
		h.Renderer.Render(w, r, "documents.tmpl", data)
		return
	}

	data.Documents = entries
	h.Renderer.Render(w, r, "documents.tmpl", data)
}
