package children

import (
	"net/http"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var (
	ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")
)

type HandlerFactory struct {
	Service  *Service        `inject:""`
	Renderer *views.Renderer `inject:""`
	Logger   *shared.Logger  `inject:""`
}

type rosterPageData struct {
	Session  *session.Session
	Children []api.ChildTransport
	Groups   map[string]string
	Error    string
}

type childFormPageData struct {
	Session *session.Session
	Child   api.ChildTransport
	Groups  []api.GroupTransport
	IsNew   bool
	Error   string
}

type parentsPageData struct {
	Session       *session.Session
	Child         api.ChildTransport
	Parents       []api.ChildParentTransport
	Users         []api.UserTransport
	Relationships []string
	Error         string
}

// Roster renders the children list.
func (h *HandlerFactory) Roster(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}

	data := rosterPageData{Session: sess}
	childList, err := h.Service.List(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to list children", "error", err.Error())
		data.Error = api.Message(err)
		h.Renderer.Render(w, r, "children.tmpl", data)
		return
	}

	groups, err := h.Service.ListGroups(r.Context(), sess)
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to list groups", "error", err.Error())
	}
	groupNames := make(map[string]string, len(groups))
	for _, group := range groups {
		groupNames[group.Id] = group.Name
	}

	data.Children = childList
	data.Groups = groupNames
	h.Renderer.Render(w, r, "children.tmpl", data)
}

// NewForm renders the empty child form.
func (h *HandlerFactory) NewForm(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	groups, _ := h.Service.ListGroups(r.Context(), sess)
	h.Renderer.Render(w, r, "child_form.tmpl", childFormPageData{Session: sess, IsNew: true, Groups: groups})
}

// EditForm renders the form pre-filled with the child's current record.
func (h *HandlerFactory) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	childId, ok := mux.Vars(r)["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}

	child, err := h.Service.Get(r.Context(), sess, childId)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to get child", "childId", childId, "error", err.Error())
		http.Redirect(w, r, "/children", http.StatusSeeOther)
		return
	}
	groups, _ := h.Service.ListGroups(r.Context(), sess)
	h.Renderer.Render(w, r, "child_form.tmpl", childFormPageData{Session: sess, Child: child, Groups: groups})
}

// Create handles the new-child form submission. On error the form is
// re-rendered with the submitted values intact.
func (h *HandlerFactory) Create(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	form, err := parseChildForm(r)
	if err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.Create(r.Context(), sess, form); err != nil {
		h.Logger.Warn(r.Context(), "failed to create child", "error", err.Error())
		groups, _ := h.Service.ListGroups(r.Context(), sess)
		h.Renderer.Render(w, r, "child_form.tmpl", childFormPageData{
			Session: sess,
			IsNew:   true,
			Groups:  groups,
			Child:   form.echo(),
			Error:   formMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// Update handles the edit form submission.
func (h *HandlerFactory) Update(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	childId, ok := mux.Vars(r)["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}
	form, err := parseChildForm(r)
	if err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}
	form.Id = childId

	if _, err := h.Service.Update(r.Context(), sess, form); err != nil {
		h.Logger.Warn(r.Context(), "failed to update child", "childId", childId, "error", err.Error())
		groups, _ := h.Service.ListGroups(r.Context(), sess)
		h.Renderer.Render(w, r, "child_form.tmpl", childFormPageData{
			Session: sess,
			Groups:  groups,
			Child:   form.echo(),
			Error:   formMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// Delete removes the child record.
func (h *HandlerFactory) Delete(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	childId, ok := mux.Vars(r)["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Service.Delete(r.Context(), sess, childId); err != nil {
		h.Logger.Err(r.Context(), "failed to delete child", "childId", childId, "error", err.Error())
	}
	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// Parents renders the parent associations page for a child.
func (h *HandlerFactory) Parents(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	childId, ok := mux.Vars(r)["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}

	data := parentsPageData{Session: sess, Relationships: Relationships}

	child, err := h.Service.Get(r.Context(), sess, childId)
	if err != nil {
		http.Redirect(w, r, "/children", http.StatusSeeOther)
		return
	}
	data.Child = child

	parents, err := h.Service.ListParents(r.Context(), sess, childId)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to list parents", "childId", childId, "error", err.Error())
		data.Error = api.Message(err)
		h.Renderer.Render(w, r, "child_parents.tmpl", data)
		return
	}
	data.Parents = parents

	users, err := h.Service.ListUsers(r.Context(), sess)
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to list users", "error", err.Error())
	}
	data.Users = users

	h.Renderer.Render(w, r, "child_parents.tmpl", data)
}

// AssignParent links a user to a child.
func (h *HandlerFactory) AssignParent(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	childId, ok := mux.Vars(r)["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}

	err := h.Service.AssignParent(r.Context(), sess, childId, r.PostFormValue("user_id"), r.PostFormValue("relationship"))
	if err != nil {
		h.Logger.Warn(r.Context(), "failed to assign parent", "childId", childId, "error", err.Error())
	}
	http.Redirect(w, r, "/children/"+childId+"/parents", http.StatusSeeOther)
}

// RemoveParent unlinks a user from a child.
func (h *HandlerFactory) RemoveParent(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}
	vars := mux.Vars(r)
	childId, ok := vars["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}
	userId, ok := vars["userId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Service.RemoveParent(r.Context(), sess, childId, userId); err != nil {
		h.Logger.Warn(r.Context(), "failed to remove parent", "childId", childId, "error", err.Error())
	}
	http.Redirect(w, r, "/children/"+childId+"/parents", http.StatusSeeOther)
}

// Export streams the roster workbook as a download.
func (h *HandlerFactory) Export(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(w, r)
	if sess == nil {
		return
	}

	workbook, err := h.Service.Export(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to build roster export", "error", err.Error())
		http.Error(w, api.Message(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="enfants.xlsx"`)
	w.Write(workbook)
}

func (f ChildForm) echo() api.ChildTransport {
	return api.ChildTransport{
		Id:        f.Id,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		BirthDate: f.BirthDate,
		GroupId:   f.GroupId,
		Notes:     f.Notes,
		IsActive:  f.IsActive,
	}
}

func parseChildForm(r *http.Request) (ChildForm, error) {
	if err := r.ParseForm(); err != nil {
		return ChildForm{}, err
	}
	return ChildForm{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		BirthDate: r.PostFormValue("birth_date"),
		GroupId:   r.PostFormValue("group_id"),
		Notes:     r.PostFormValue("notes"),
		IsActive:  r.PostFormValue("is_active") != "",
	}, nil
}

func formMessage(err error) string {
	switch errors.Cause(err) {
	case ErrEmptyName:
		return "Le prénom et le nom sont obligatoires."
	case ErrBadBirthDate:
		return "La date de naissance est invalide."
	}
	return api.Message(err)
}

func mustSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	return sess
}
