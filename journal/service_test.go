package journal_test

import (
	"context"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/api/mocks"
	. "github.com/minigarde/portal/journal"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

var _ = Describe("Service", func() {

	var (
		ctx        = context.Background()
		svc        *Service
		mockClient *mocks.MockJournalClient
		sess       *session.Session

		weekStart time.Time
	)

	entryFor := func(date string) interface{} {
		return mock.MatchedBy(func(entry api.JournalEntryTransport) bool {
			return entry.Date == date
		})
	}

	upsertCount := func(date string) int {
		count := 0
		for _, call := range mockClient.Calls {
			if call.Method != "UpsertEntry" {
				continue
			}
			if call.Arguments.Get(2).(api.JournalEntryTransport).Date == date {
				count++
			}
		}
		return count
	}

	BeforeEach(func() {
		mockClient = &mocks.MockJournalClient{}
		svc = &Service{
			Client:   mockClient,
			Logger:   shared.NewLogger("journal-test"),
			Debounce: 20 * time.Millisecond,
			IdleTtl:  time.Hour,
		}
		sess = &session.Session{
			Token:  "session-token",
			UserId: "user-1",
			Role:   session.ROLE_EDUCATOR,
			Tenant: "les-petits-lutins",
		}
		weekStart, _ = time.Parse(DateLayout, "2024-06-03")

		mockClient.On("GetWeek", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]api.JournalEntryTransport{}, nil)
	})

	Describe("WeekView", func() {

		It("should return 5 days and a view token", func() {
			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(view.Token).NotTo(BeEmpty())
			Expect(view.Days[0].Entry.Date).To(Equal("2024-06-03"))
			Expect(view.Days[4].Entry.Date).To(Equal("2024-06-07"))
		})

		It("should keep the token while the selection is unchanged", func() {
			first, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			second, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(second.Token).To(Equal(first.Token))
		})

		It("should rotate the token when the child changes", func() {
			first, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			second, err := svc.WeekView(ctx, sess, "child-2", weekStart)
			Expect(err).To(BeNil())
			Expect(second.Token).NotTo(Equal(first.Token))
		})

		It("should wrap fetch failures", func() {
			failing := &mocks.MockJournalClient{}
			failing.On("GetWeek", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return([]api.JournalEntryTransport{}, errors.New("boom"))
			svc.Client = failing

			_, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).NotTo(BeNil())
		})
	})

	Describe("EditField", func() {

		var token string

		BeforeEach(func() {
			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			token = view.Token
		})

		It("should record the draft as pending", func() {
			ack, err := svc.EditField(ctx, sess, token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())
			Expect(ack.PendingDates).To(Equal([]string{"2024-06-03"}))
		})

		It("should reject a stale token", func() {
			_, err := svc.EditField(ctx, sess, "some-old-token", "2024-06-03", "menu", "Pâtes")
			Expect(errors.Cause(err)).To(Equal(ErrStaleView))
		})

		It("should reject a date outside the selected week", func() {
			_, err := svc.EditField(ctx, sess, token, "2024-06-10", "menu", "Pâtes")
			Expect(errors.Cause(err)).To(Equal(ErrBadValue))
		})

		It("should reject an unknown field without creating noise on later edits", func() {
			_, err := svc.EditField(ctx, sess, token, "2024-06-03", "couleur", "bleu")
			Expect(errors.Cause(err)).To(Equal(ErrUnknownField))
		})

		It("should flush the draft after the debounce window", func() {
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03", Menu: "Pâtes"}, nil)

			_, err := svc.EditField(ctx, sess, token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			Eventually(func() int { return upsertCount("2024-06-03") }).Should(Equal(1))

			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(view.PendingDates).To(BeEmpty())
			Expect(view.LastResults).To(HaveLen(1))
			Expect(view.LastResults[0].Saved).To(BeTrue())
		})
	})

	Describe("Flush", func() {

		var token string

		BeforeEach(func() {
			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			token = view.Token
		})

		It("should report per-day results sorted by date", func() {
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03"}, nil)
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-05")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-05"}, nil)

			_, err := svc.EditField(ctx, sess, token, "2024-06-05", "menu", "Riz")
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			results := svc.Flush(ctx, sess)
			Expect(results).To(HaveLen(2))
			Expect(results[0].Date).To(Equal("2024-06-03"))
			Expect(results[1].Date).To(Equal("2024-06-05"))
			Expect(results[0].Saved).To(BeTrue())
			Expect(results[1].Saved).To(BeTrue())
		})

		It("should keep failed days pending and retry them on the next flush", func() {
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03"}, nil)
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-04")).
				Return(api.JournalEntryTransport{}, errors.New("boom")).Once()
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-04")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-04"}, nil)

			_, err := svc.EditField(ctx, sess, token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, token, "2024-06-04", "menu", "Soupe")
			Expect(err).To(BeNil())

			results := svc.Flush(ctx, sess)
			Expect(results).To(HaveLen(2))
			Expect(results[0].Saved).To(BeTrue())
			Expect(results[1].Saved).To(BeFalse())
			Expect(results[1].Message).NotTo(BeEmpty())

			retried := svc.Flush(ctx, sess)
			Expect(retried).To(HaveLen(1))
			Expect(retried[0].Date).To(Equal("2024-06-04"))
			Expect(retried[0].Saved).To(BeTrue())

			Expect(upsertCount("2024-06-03")).To(Equal(1))
			Expect(upsertCount("2024-06-04")).To(Equal(2))
		})

		It("should do nothing when no draft is pending", func() {
			Expect(svc.Flush(ctx, sess)).To(BeEmpty())
			mockClient.AssertNotCalled(GinkgoT(), "UpsertEntry", mock.Anything, mock.Anything, mock.Anything)
		})
	})

	Describe("in-flight completions", func() {

		It("should keep a draft re-edited while its flush is in flight", func() {
			blocking := &mocks.MockJournalClient{}
			blocking.On("GetWeek", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return([]api.JournalEntryTransport{}, nil)

			inFlight := make(chan struct{})
			release := make(chan struct{})
			blocking.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Run(func(mock.Arguments) {
					close(inFlight)
					<-release
				}).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03", Menu: "Pâtes"}, nil)
			svc.Client = blocking
			svc.Debounce = time.Hour

			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			flushed := make(chan []DayResult, 1)
			go func() {
				flushed <- svc.Flush(ctx, sess)
			}()

			<-inFlight
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Riz")
			Expect(err).To(BeNil())
			close(release)

			results := <-flushed
			Expect(results).To(HaveLen(1))
			Expect(results[0].Saved).To(BeTrue())

			after, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(after.PendingDates).To(Equal([]string{"2024-06-03"}))
			Expect(after.Days[0].Entry.Menu).To(Equal("Riz"))
			Expect(after.Days[0].Status).To(Equal(StatusUnsaved))
		})

		It("should discard a week fetch that completes after the selection changed", func() {
			blocking := &mocks.MockJournalClient{}
			inFlight := make(chan struct{})
			release := make(chan struct{})
			blocking.On("GetWeek", mock.Anything, mock.Anything, "child-1", mock.Anything).
				Run(func(mock.Arguments) {
					close(inFlight)
					<-release
				}).
				Return([]api.JournalEntryTransport{{ChildId: "child-1", Date: "2024-06-03", Menu: "Couscous"}}, nil)
			blocking.On("GetWeek", mock.Anything, mock.Anything, "child-2", mock.Anything).
				Return([]api.JournalEntryTransport{}, nil)
			svc.Client = blocking

			fetched := make(chan error, 1)
			go func() {
				_, err := svc.WeekView(ctx, sess, "child-1", weekStart)
				fetched <- err
			}()

			<-inFlight
			view, err := svc.WeekView(ctx, sess, "child-2", weekStart)
			Expect(err).To(BeNil())
			Expect(view.ChildId).To(Equal("child-2"))
			close(release)

			Expect(errors.Cause(<-fetched)).To(Equal(ErrStaleView))
		})

		It("should discard a flush that completes after the selection changed", func() {
			blocking := &mocks.MockJournalClient{}
			blocking.On("GetWeek", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return([]api.JournalEntryTransport{}, nil)

			inFlight := make(chan struct{})
			release := make(chan struct{})
			blocking.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Run(func(mock.Arguments) {
					close(inFlight)
					<-release
				}).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03", Menu: "Pâtes"}, nil)
			svc.Client = blocking
			svc.Debounce = time.Hour

			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			flushed := make(chan []DayResult, 1)
			go func() {
				flushed <- svc.Flush(ctx, sess)
			}()

			<-inFlight
			_, err = svc.WeekView(ctx, sess, "child-2", weekStart)
			Expect(err).To(BeNil())
			close(release)

			Expect(<-flushed).To(BeEmpty())

			after, err := svc.WeekView(ctx, sess, "child-2", weekStart)
			Expect(err).To(BeNil())
			Expect(after.LastResults).To(BeEmpty())
			Expect(after.PendingDates).To(BeEmpty())
		})
	})

	Describe("switching selection", func() {

		It("should discard pending drafts", func() {
			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			_, err = svc.WeekView(ctx, sess, "child-2", weekStart)
			Expect(err).To(BeNil())

			Expect(svc.Flush(ctx, sess)).To(BeEmpty())
			mockClient.AssertNotCalled(GinkgoT(), "UpsertEntry", mock.Anything, mock.Anything, mock.Anything)
		})

		It("should keep the buffers of other sessions separate", func() {
			otherSess := &session.Session{Token: "other-session", Role: session.ROLE_EDUCATOR, Tenant: "les-petits-lutins"}

			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			otherView, err := svc.WeekView(ctx, otherSess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(otherView.PendingDates).To(BeEmpty())
			Expect(otherView.Token).NotTo(Equal(view.Token))
		})
	})

	Describe("SendToParents", func() {

		It("should flush pending drafts before sending", func() {
			mockClient.On("UpsertEntry", mock.Anything, mock.Anything, entryFor("2024-06-03")).
				Return(api.JournalEntryTransport{ChildId: "child-1", Date: "2024-06-03"}, nil)
			mockClient.On("SendToParents", mock.Anything, mock.Anything, "child-1", "2024-06-03").
				Return("journal envoyé", nil)

			view, err := svc.WeekView(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			_, err = svc.EditField(ctx, sess, view.Token, "2024-06-03", "menu", "Pâtes")
			Expect(err).To(BeNil())

			message, err := svc.SendToParents(ctx, sess, "child-1", weekStart)
			Expect(err).To(BeNil())
			Expect(message).To(Equal("journal envoyé"))
			Expect(upsertCount("2024-06-03")).To(Equal(1))
		})

		It("should wrap send failures", func() {
			mockClient.On("SendToParents", mock.Anything, mock.Anything, "child-1", "2024-06-03").
				Return("", errors.New("boom"))

			_, err := svc.SendToParents(ctx, sess, "child-1", weekStart)
			Expect(err).NotTo(BeNil())
		})
	})
})
