package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var (
	ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")
)

type HandlerFactory struct {
	Service  *Service           `inject:""`
	Children api.ChildrenClient `inject:""`
	Renderer *views.Renderer    `inject:""`
	Logger   *shared.Logger     `inject:""`
}

type weekPageData struct {
	Session  *session.Session
	Children []api.ChildTransport
	View     *WeekView
	PrevWeek string
	NextWeek string
	ReadOnly bool
	Error    string
}

// Page renders the staff journal grid for one child and one Monday-anchored
// week.
func (h *HandlerFactory) Page(w http.ResponseWriter, r *http.Request) {
	h.renderWeek(w, r, false)
}

// ParentPage renders the read-only parent variant. The API scopes the
// children list to the parent's own children.
func (h *HandlerFactory) ParentPage(w http.ResponseWriter, r *http.Request) {
	h.renderWeek(w, r, true)
}

func (h *HandlerFactory) renderWeek(w http.ResponseWriter, r *http.Request, readOnly bool) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	children, err := h.Children.ListChildren(r.Context(), sess)
	if err != nil {
		h.Logger.Err(r.Context(), "failed to list children", "error", err.Error())
		h.Renderer.Render(w, r, "journal.tmpl", weekPageData{Session: sess, ReadOnly: readOnly, Error: api.Message(err)})
		return
	}

	childId := r.URL.Query().Get("child_id")
	if childId == "" && len(children) > 0 {
		childId = children[0].Id
	}

	weekStart := WeekStart(time.Now().UTC())
	if raw := r.URL.Query().Get("week_start"); raw != "" {
		if parsed, parseErr := time.Parse(DateLayout, raw); parseErr == nil {
			weekStart = WeekStart(parsed)
		}
	}

	data := weekPageData{
		Session:  sess,
		Children: children,
		ReadOnly: readOnly,
		PrevWeek: weekStart.AddDate(0, 0, -7).Format(DateLayout),
		NextWeek: weekStart.AddDate(0, 0, 7).Format(DateLayout),
	}

	if childId == "" {
		h.Renderer.Render(w, r, "journal.tmpl", data)
		return
	}

	view, err := h.Service.WeekView(r.Context(), sess, childId, weekStart)
	if err != nil {
		if errors.Cause(err) != ErrStaleView {
			h.Logger.Err(r.Context(), "failed to build journal week", "error", err.Error())
			data.Error = api.Message(err)
		}
		h.Renderer.Render(w, r, "journal.tmpl", data)
		return
	}

	data.View = view
	h.Renderer.Render(w, r, "journal.tmpl", data)
}

// EditField is the JSON endpoint behind the grid's field-level autosave.
func (h *HandlerFactory) EditField(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeEditFieldEndpoint(h.Service),
		decodeEditFieldRequest,
		shared.EncodeResponse200,
		opts...,
	)
}

// Save flushes every pending draft immediately and reports per-day results.
func (h *HandlerFactory) Save(opts []kithttp.ServerOption) *kithttp.Server {
	return kithttp.NewServer(
		makeSaveEndpoint(h.Service),
		ignorePayload,
		shared.EncodeResponse200,
		opts...,
	)
}

type editFieldRequest struct {
	Token string `json:"token"`
	Date  string `json:"date"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func makeEditFieldEndpoint(svc *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(editFieldRequest)
		sess, err := session.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		return svc.EditField(ctx, sess, req.Token, req.Date, req.Field, req.Value)
	}
}

type saveResponse struct {
	Results []DayResult `json:"results"`
}

func makeSaveEndpoint(svc *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		sess, err := session.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		return saveResponse{Results: svc.Flush(ctx, sess)}, nil
	}
}

func decodeEditFieldRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var request editFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, err
	}
	return request, nil
}

func ignorePayload(_ context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

// Send emails one child's weekly journal to its parents.
func (h *HandlerFactory) Send(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	vars := mux.Vars(r)
	childId, ok := vars["childId"]
	if !ok {
		http.Error(w, ErrBadRouting.Error(), http.StatusInternalServerError)
		return
	}
	weekStart, err := parseWeekStartForm(r)
	if err != nil {
		http.Error(w, "Semaine invalide", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.SendToParents(r.Context(), sess, childId, weekStart); err != nil {
		h.Logger.Err(r.Context(), "failed to send journal to parents", "childId", childId, "error", err.Error())
	}
	http.Redirect(w, r, "/journal?child_id="+childId+"&week_start="+weekStart.Format(DateLayout), http.StatusSeeOther)
}

// SendAll emails the weekly journals of every child.
func (h *HandlerFactory) SendAll(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	weekStart, err := parseWeekStartForm(r)
	if err != nil {
		http.Error(w, "Semaine invalide", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.SendAllToParents(r.Context(), sess, weekStart); err != nil {
		h.Logger.Err(r.Context(), "failed to send all journals to parents", "error", err.Error())
	}
	http.Redirect(w, r, "/journal?week_start="+weekStart.Format(DateLayout), http.StatusSeeOther)
}

func parseWeekStartForm(r *http.Request) (time.Time, error) {
	if err := r.ParseForm(); err != nil {
		return time.Time{}, err
	}
	return time.Parse(DateLayout, r.PostFormValue("week_start"))
}

// EncodeError maps journal errors onto HTTP statuses for the JSON
// endpoints.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch errors.Cause(err) {
	case ErrStaleView:
		w.WriteHeader(http.StatusConflict)
	case ErrUnknownField, ErrBadValue:
		w.WriteHeader(http.StatusBadRequest)
	case session.ErrNoSession, api.ErrUnauthorized:
		w.WriteHeader(http.StatusUnauthorized)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
