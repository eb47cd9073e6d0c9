package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrStaleView = errors.New("journal view is no longer current")
)

// WeekKey identifies one (child, week) selection. Switching to another key
// discards every pending draft of the previous one.
type WeekKey struct {
	ChildId   string
	WeekStart string
}

// DayResult is the outcome of one day's submission within a flush. The
// flush is best-effort per day: days that fail keep their draft and are
// reported individually, days that succeed clear theirs.
type DayResult struct {
	Date    string `json:"date"`
	Saved   bool   `json:"saved"`
	Message string `json:"message,omitempty"`
}

type draftState struct {
	draft Draft
	rev   uint64
}

// editState holds one session's edit buffers for its current (child, week)
// selection, plus the debounce timer and the last flush outcome.
type editState struct {
	key       WeekKey
	token     string
	drafts    map[string]*draftState
	server    map[string]api.JournalEntryTransport
	timer     *time.Timer
	lastTouch time.Time
	results   []DayResult
}

type WeekView struct {
	ChildId        string
	WeekStart      time.Time
	Token          string
	Days           [5]DayView
	ActiveDayIndex int
	PendingDates   []string
	LastResults    []DayResult
}

type EditAck struct {
	Token        string   `json:"token"`
	PendingDates []string `json:"pendingDates"`
}

type Service struct {
	Client api.JournalClient `inject:""`
	Logger *shared.Logger    `inject:""`

	// Inactivity window before pending drafts are flushed.
	Debounce time.Duration
	// Edit state of sessions idle longer than this is dropped.
	IdleTtl time.Duration

	mu     sync.Mutex
	states map[string]*editState
}

const defaultIdleTtl = 12 * time.Hour

// ensureState returns the edit state for this session, creating it when
// needed and sweeping states idle beyond IdleTtl.
func (s *Service) ensureState(sess *session.Session) *editState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states == nil {
		s.states = make(map[string]*editState)
	}

	ttl := s.IdleTtl
	if ttl == 0 {
		ttl = defaultIdleTtl
	}
	for token, st := range s.states {
		if token != sess.Token && time.Since(st.lastTouch) > ttl {
			if st.timer != nil {
				st.timer.Stop()
			}
			delete(s.states, token)
		}
	}

	st, ok := s.states[sess.Token]
	if !ok {
		st = &editState{
			drafts: make(map[string]*draftState),
			server: make(map[string]api.JournalEntryTransport),
		}
		s.states[sess.Token] = st
	}
	st.lastTouch = time.Now()
	return st
}

// switchLocked moves the state to a new (child, week) selection: every
// pending draft is discarded and the view token rotates so in-flight
// completions for the previous selection are ignored.
func (s *Service) switchLocked(st *editState, key WeekKey) {
	st.key = key
	st.token = uuid.New().String()
	st.drafts = make(map[string]*draftState)
	st.server = make(map[string]api.JournalEntryTransport)
	st.results = nil
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
}

// WeekView fetches the week from the API and reconciles it with the
// session's drafts for that selection.
func (s *Service) WeekView(ctx context.Context, sess *session.Session, childId string, weekStart time.Time) (*WeekView, error) {
	key := WeekKey{ChildId: childId, WeekStart: weekStart.Format(DateLayout)}

	st := s.ensureState(sess)
	s.mu.Lock()
	if st.key != key {
		s.switchLocked(st, key)
	}
	token := st.token
	s.mu.Unlock()

	entries, err := s.Client.GetWeek(ctx, sess, childId, key.WeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch journal week")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st.token != token {
		// the selection changed while the fetch was in flight
		return nil, ErrStaleView
	}

	st.server = make(map[string]api.JournalEntryTransport, len(entries))
	for _, entry := range entries {
		st.server[entry.Date] = entry
	}

	drafts := snapshotDrafts(st)
	now := time.Now().UTC()
	view := &WeekView{
		ChildId:        childId,
		WeekStart:      weekStart,
		Token:          token,
		Days:           Reconcile(childId, weekStart, entries, drafts, now),
		ActiveDayIndex: DefaultActiveDayIndex(weekStart, now),
		PendingDates:   pendingDatesLocked(st),
		LastResults:    append([]DayResult(nil), st.results...),
	}
	return view, nil
}

// EditField creates or updates the draft for one date and restarts the
// debounce timer. The token must match the view the edit originated from.
func (s *Service) EditField(ctx context.Context, sess *session.Session, token, date, field, value string) (*EditAck, error) {
	st := s.ensureState(sess)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || st.token != token {
		return nil, ErrStaleView
	}
	if !dateInWeek(st.key, date) {
		return nil, errors.Wrapf(ErrBadValue, "date %q outside week %s", date, st.key.WeekStart)
	}

	ds, ok := st.drafts[date]
	if !ok {
		seed := emptyEntry(st.key.ChildId, date)
		if entry, found := st.server[date]; found {
			seed = entry
		}
		draft := draftFromEntry(seed)
		ds = &draftState{draft: draft}
		st.drafts[date] = ds
	}

	if err := ds.draft.Apply(field, value); err != nil {
		return nil, err
	}
	ds.rev++
	st.lastTouch = time.Now()

	if st.timer != nil {
		st.timer.Stop()
	}
	sessCopy := *sess
	st.timer = time.AfterFunc(s.Debounce, func() {
		s.flush(&sessCopy, st, token)
	})

	return &EditAck{Token: token, PendingDates: pendingDatesLocked(st)}, nil
}

// Flush submits every pending draft immediately and returns the per-day
// outcome. Used by the explicit save action.
func (s *Service) Flush(ctx context.Context, sess *session.Session) []DayResult {
	st := s.ensureState(sess)
	s.mu.Lock()
	token := st.token
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	s.mu.Unlock()

	s.flush(sess, st, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DayResult(nil), st.results...)
}

// flush snapshots the pending drafts and submits each day concurrently.
// Days whose submission succeeds have their draft cleared unless it was
// re-edited while in flight; failed days keep theirs for a later retry.
// Completions for a rotated token are discarded entirely.
func (s *Service) flush(sess *session.Session, st *editState, token string) {
	type pendingDay struct {
		date  string
		draft Draft
		rev   uint64
	}

	s.mu.Lock()
	if st.token != token {
		s.mu.Unlock()
		return
	}
	childId := st.key.ChildId
	pending := make([]pendingDay, 0, len(st.drafts))
	for date, ds := range st.drafts {
		pending = append(pending, pendingDay{date: date, draft: ds.draft, rev: ds.rev})
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	ctx := context.Background()
	results := make([]DayResult, len(pending))
	saved := make([]api.JournalEntryTransport, len(pending))

	var wg sync.WaitGroup
	for i, day := range pending {
		wg.Add(1)
		go func(i int, day pendingDay) {
			defer wg.Done()
			entry, err := s.Client.UpsertEntry(ctx, sess, day.draft.toEntry(childId, day.date))
			if err != nil {
				s.Logger.Warn(ctx, "journal day submission failed", "date", day.date, "error", err.Error())
				results[i] = DayResult{Date: day.date, Saved: false, Message: api.Message(err)}
				return
			}
			saved[i] = entry
			results[i] = DayResult{Date: day.date, Saved: true}
		}(i, day)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if st.token != token {
		// the user switched child or week during the flush
		return
	}
	for i, day := range pending {
		if !results[i].Saved {
			continue
		}
		st.server[day.date] = saved[i]
		if ds, ok := st.drafts[day.date]; ok && ds.rev == day.rev {
			delete(st.drafts, day.date)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	st.results = results
}

// SendToParents emails one child's weekly journal, flushing pending drafts
// for that child first so the email matches what the staff sees.
func (s *Service) SendToParents(ctx context.Context, sess *session.Session, childId string, weekStart time.Time) (string, error) {
	s.Flush(ctx, sess)
	message, err := s.Client.SendToParents(ctx, sess, childId, weekStart.Format(DateLayout))
	if err != nil {
		return "", errors.Wrap(err, "failed to send journal")
	}
	return message, nil
}

func (s *Service) SendAllToParents(ctx context.Context, sess *session.Session, weekStart time.Time) (string, error) {
	s.Flush(ctx, sess)
	message, err := s.Client.SendAllToParents(ctx, sess, weekStart.Format(DateLayout))
	if err != nil {
		return "", errors.Wrap(err, "failed to send journals")
	}
	return message, nil
}

func snapshotDrafts(st *editState) map[string]Draft {
	drafts := make(map[string]Draft, len(st.drafts))
	for date, ds := range st.drafts {
		drafts[date] = ds.draft
	}
	return drafts
}

func pendingDatesLocked(st *editState) []string {
	dates := make([]string, 0, len(st.drafts))
	for date := range st.drafts {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func dateInWeek(key WeekKey, date string) bool {
	start, err := time.Parse(DateLayout, key.WeekStart)
	if err != nil {
		return false
	}
	for _, day := range WeekDates(start) {
		if day.Format(DateLayout) == date {
			return true
		}
	}
	return false
}
