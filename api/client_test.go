package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Client", func() {

	var (
		ctx    = context.Background()
		server *httptest.Server
		client *Client
		sess   *session.Session

		lastRequest *http.Request
		respStatus  int
		respBody    string
	)

	newClient := func(rawUrl string) *Client {
		u, err := url.Parse(rawUrl)
		Expect(err).To(BeNil())
		return NewClient(u.Scheme, u.Host)
	}

	BeforeEach(func() {
		respStatus = http.StatusOK
		respBody = `[]`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastRequest = r.Clone(r.Context())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(respStatus)
			w.Write([]byte(respBody))
		}))
		client = newClient(server.URL)
		sess = &session.Session{Token: "api-token", Tenant: "les-petits-lutins", Role: session.ROLE_EDUCATOR}
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("request shape", func() {

		It("should prefix paths with /api/v1", func() {
			_, err := client.ListChildren(ctx, sess)
			Expect(err).To(BeNil())
			Expect(lastRequest.URL.Path).To(Equal("/api/v1/children"))
		})

		It("should carry the bearer token and tenant headers", func() {
			_, err := client.ListChildren(ctx, sess)
			Expect(err).To(BeNil())
			Expect(lastRequest.Header.Get("Authorization")).To(Equal("Bearer api-token"))
			Expect(lastRequest.Header.Get("X-Tenant")).To(Equal("les-petits-lutins"))
		})

		It("should not send identity headers on login", func() {
			respBody = `{"token":"t"}`
			_, err := client.Login(ctx, "a@b.c", "secret")
			Expect(err).To(BeNil())
			Expect(lastRequest.Header.Get("Authorization")).To(BeEmpty())
			Expect(lastRequest.Header.Get("X-Tenant")).To(BeEmpty())
		})

		It("should encode the journal week query", func() {
			_, err := client.GetWeek(ctx, sess, "child-1", "2024-06-03")
			Expect(err).To(BeNil())
			Expect(lastRequest.URL.Query().Get("child_id")).To(Equal("child-1"))
			Expect(lastRequest.URL.Query().Get("week_start")).To(Equal("2024-06-03"))
		})

		It("should only include set document filters", func() {
			_, err := client.ListDocuments(ctx, sess, DocumentFilter{Category: "menu"})
			Expect(err).To(BeNil())
			Expect(lastRequest.URL.Query().Get("category")).To(Equal("menu"))
			Expect(lastRequest.URL.Query().Has("group_id")).To(BeFalse())
		})
	})

	Describe("error mapping", func() {

		It("should decode the error body into the displayable message", func() {
			respStatus = http.StatusBadRequest
			respBody = `{"error":"Le format de la date est invalide"}`

			_, err := client.GetWeek(ctx, sess, "child-1", "pas-une-date")
			Expect(err).NotTo(BeNil())
			Expect(Message(err)).To(Equal("Le format de la date est invalide"))
			Expect(errors.Cause(err)).To(Equal(ErrServerBadRequest))
		})

		It("should map 401 to ErrUnauthorized", func() {
			respStatus = http.StatusUnauthorized
			respBody = `{"error":"token expiré"}`

			_, err := client.ListChildren(ctx, sess)
			Expect(errors.Cause(err)).To(Equal(ErrUnauthorized))
		})

		It("should map 403 to ErrForbidden", func() {
			respStatus = http.StatusForbidden
			respBody = `{}`

			_, err := client.ListChildren(ctx, sess)
			Expect(errors.Cause(err)).To(Equal(ErrForbidden))
		})

		It("should map 5xx to ErrServerError", func() {
			respStatus = http.StatusBadGateway
			respBody = `not json`

			_, err := client.ListChildren(ctx, sess)
			Expect(errors.Cause(err)).To(Equal(ErrServerError))
		})

		It("should fall back to the status text when the body has no message", func() {
			respStatus = http.StatusInternalServerError
			respBody = `{}`

			_, err := client.ListChildren(ctx, sess)
			Expect(Message(err)).To(Equal(http.StatusText(http.StatusInternalServerError)))
		})

		It("should fall back to a generic French message for non-API errors", func() {
			Expect(Message(errors.New("dial tcp: connection refused"))).
				To(Equal("Une erreur est survenue. Veuillez réessayer."))
		})
	})

	Describe("DownloadURL", func() {

		It("should point the browser straight at the API", func() {
			link := client.DownloadURL(DocumentTransport{Id: "doc-1"})
			Expect(link).To(Equal(server.URL + "/api/v1/documents/doc-1/download"))
		})
	})
})
