package privacy_test

import (
	"bytes"
	"context"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/api/mocks"
	"github.com/minigarde/portal/journal"
	. "github.com/minigarde/portal/privacy"
	"github.com/minigarde/portal/session"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Service", func() {

	var (
		ctx = context.Background()
		svc *Service

		mockAuth     *mocks.MockAuthClient
		mockChildren *mocks.MockChildrenClient
		mockJournal  *mocks.MockJournalClient
		sess         *session.Session
	)

	BeforeEach(func() {
		mockAuth = &mocks.MockAuthClient{}
		mockChildren = &mocks.MockChildrenClient{}
		mockJournal = &mocks.MockJournalClient{}
		svc = &Service{Auth: mockAuth, Children: mockChildren, Journal: mockJournal}
		sess = &session.Session{Token: "t", Role: session.ROLE_PARENT, Tenant: "les-petits-lutins"}
	})

	Describe("ChangePassword", func() {

		It("should refuse a short password before calling the API", func() {
			err := svc.ChangePassword(ctx, sess, "old", "court", "court")
			Expect(errors.Cause(err)).To(Equal(ErrPasswordTooShort))
			mockAuth.AssertNotCalled(GinkgoT(), "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})

		It("should refuse a mismatched confirmation", func() {
			err := svc.ChangePassword(ctx, sess, "old", "nouveaumotdepasse", "autrechose")
			Expect(errors.Cause(err)).To(Equal(ErrPasswordMismatch))
			mockAuth.AssertNotCalled(GinkgoT(), "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})

		It("should forward a valid change", func() {
			mockAuth.On("ChangePassword", mock.Anything, sess, "old", "nouveaumotdepasse").Return(nil)

			Expect(svc.ChangePassword(ctx, sess, "old", "nouveaumotdepasse", "nouveaumotdepasse")).To(BeNil())
			mockAuth.AssertExpectations(GinkgoT())
		})
	})

	Describe("UpdatePhotosConsent", func() {

		It("should return the API's echoed consent state", func() {
			mockAuth.On("UpdateConsent", mock.Anything, sess, false).
				Return(api.ConsentTransport{PrivacyAccepted: true, PhotosAccepted: false}, nil)

			consent, err := svc.UpdatePhotosConsent(ctx, sess, false)
			Expect(err).To(BeNil())
			Expect(consent.PhotosAccepted).To(BeFalse())
			Expect(consent.PrivacyAccepted).To(BeTrue())
		})
	})

	Describe("Export", func() {

		BeforeEach(func() {
			minutes := 90
			mockChildren.On("ListChildren", mock.Anything, sess).Return([]api.ChildTransport{
				{Id: "child-1", FirstName: "Léa", LastName: "Roy"},
			}, nil)

			currentWeek := journal.WeekStart(time.Now().UTC()).Format(journal.DateLayout)
			mockJournal.On("GetWeek", mock.Anything, sess, "child-1", currentWeek).
				Return([]api.JournalEntryTransport{
					{ChildId: "child-1", Date: "2024-06-03", Menu: "Couscous", SommeilMinutes: &minutes, Humeur: api.MoodGood},
				}, nil)
			mockJournal.On("GetWeek", mock.Anything, sess, "child-1", mock.Anything).
				Return([]api.JournalEntryTransport{}, nil)
		})

		It("should produce one sheet per child with the journal rows", func() {
			workbook, err := svc.Export(ctx, sess)
			Expect(err).To(BeNil())

			f, err := excelize.OpenReader(bytes.NewReader(workbook))
			Expect(err).To(BeNil())
			defer f.Close()

			rows, err := f.GetRows("1 Léa Roy")
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0][0]).To(Equal("Date"))
			Expect(rows[1][0]).To(Equal("2024-06-03"))
			Expect(rows[1][3]).To(Equal("Couscous"))
			Expect(rows[1][6]).To(Equal("90"))
		})

		It("should query the trailing four weeks", func() {
			_, err := svc.Export(ctx, sess)
			Expect(err).To(BeNil())
			mockJournal.AssertNumberOfCalls(GinkgoT(), "GetWeek", 4)
		})

		It("should keep homonymous children on separate sheets", func() {
			children := &mocks.MockChildrenClient{}
			children.On("ListChildren", mock.Anything, sess).Return([]api.ChildTransport{
				{Id: "child-1", FirstName: "Léa", LastName: "Roy"},
				{Id: "child-2", FirstName: "Léa", LastName: "Roy"},
			}, nil)
			journalClient := &mocks.MockJournalClient{}
			journalClient.On("GetWeek", mock.Anything, sess, "child-1", mock.Anything).
				Return([]api.JournalEntryTransport{{ChildId: "child-1", Date: "2024-06-03", Menu: "Couscous"}}, nil)
			journalClient.On("GetWeek", mock.Anything, sess, "child-2", mock.Anything).
				Return([]api.JournalEntryTransport{{ChildId: "child-2", Date: "2024-06-03", Menu: "Riz"}}, nil)
			svc.Children = children
			svc.Journal = journalClient

			workbook, err := svc.Export(ctx, sess)
			Expect(err).To(BeNil())

			f, err := excelize.OpenReader(bytes.NewReader(workbook))
			Expect(err).To(BeNil())
			defer f.Close()

			Expect(f.GetSheetList()).To(Equal([]string{"1 Léa Roy", "2 Léa Roy"}))

			first, err := f.GetRows("1 Léa Roy")
			Expect(err).To(BeNil())
			Expect(first[1][3]).To(Equal("Couscous"))
			second, err := f.GetRows("2 Léa Roy")
			Expect(err).To(BeNil())
			Expect(second[1][3]).To(Equal("Riz"))
		})

		It("should cap long sheet names at 31 characters", func() {
			children := &mocks.MockChildrenClient{}
			children.On("ListChildren", mock.Anything, sess).Return([]api.ChildTransport{
				{Id: "child-1", FirstName: "Marie-Ève-Alexandrine", LastName: "de Saint-Exupéry-Tremblay"},
			}, nil)
			journalClient := &mocks.MockJournalClient{}
			journalClient.On("GetWeek", mock.Anything, sess, "child-1", mock.Anything).
				Return([]api.JournalEntryTransport{}, nil)
			svc.Children = children
			svc.Journal = journalClient

			workbook, err := svc.Export(ctx, sess)
			Expect(err).To(BeNil())

			f, err := excelize.OpenReader(bytes.NewReader(workbook))
			Expect(err).To(BeNil())
			defer f.Close()

			sheets := f.GetSheetList()
			Expect(sheets).To(HaveLen(1))
			Expect([]rune(sheets[0])).To(HaveLen(31))
			Expect(sheets[0]).To(HavePrefix("1 Marie-Ève-Alexandrine"))
		})
	})
})
