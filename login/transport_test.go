package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/api/mocks"
	. "github.com/minigarde/portal/login"
	"github.com/minigarde/portal/session"
	"github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/views"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

var _ = Describe("Transport", func() {

	const cookieName = "minigarde_session"

	var (
		factory  *HandlerFactory
		mockAuth *mocks.MockAuthClient
		recorder *httptest.ResponseRecorder
		reqToUse *http.Request
	)

	loginRequest := func(email, password string) *http.Request {
		form := url.Values{}
		form.Set("email", email)
		form.Set("password", password)
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	sessionFromCookies := func() *session.Session {
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == cookieName && cookie.Value != "" {
				sess, err := session.DecodeCookieValue(cookie.Value)
				Expect(err).To(BeNil())
				return sess
			}
		}
		return nil
	}

	BeforeEach(func() {
		logger := shared.NewLogger("login-transport-test")
		renderer := &views.Renderer{Logger: logger}
		Expect(renderer.Load("../templates")).To(BeNil())

		mockAuth = &mocks.MockAuthClient{}
		factory = &HandlerFactory{
			Auth:       mockAuth,
			Renderer:   renderer,
			Logger:     logger,
			CookieName: cookieName,
		}
		recorder = httptest.NewRecorder()
	})

	Context("Login", func() {

		Context("with staff credentials", func() {
			BeforeEach(func() {
				mockAuth.On("Login", mock.Anything, "claire@garderie.ca", "secret").
					Return(api.LoginResponse{
						Token:  "api-token",
						UserId: "user-1",
						Role:   session.ROLE_EDUCATOR,
						Tenant: "les-petits-lutins",
					}, nil)
				reqToUse = loginRequest("claire@garderie.ca", "secret")
			})

			JustBeforeEach(func() {
				factory.Login(recorder, reqToUse)
			})

			It("should redirect to the children roster", func() {
				Expect(recorder.Code).To(Equal(http.StatusSeeOther))
				Expect(recorder.Header().Get("Location")).To(Equal("/children"))
			})

			It("should set the session cookie", func() {
				sess := sessionFromCookies()
				Expect(sess).NotTo(BeNil())
				Expect(sess.Token).To(Equal("api-token"))
				Expect(sess.Role).To(Equal(session.ROLE_EDUCATOR))
			})
		})

		Context("with parent credentials", func() {
			BeforeEach(func() {
				mockAuth.On("Login", mock.Anything, "parent@example.com", "secret").
					Return(api.LoginResponse{Token: "api-token", Role: session.ROLE_PARENT, Tenant: "les-petits-lutins"}, nil)
				reqToUse = loginRequest("parent@example.com", "secret")
			})

			JustBeforeEach(func() {
				factory.Login(recorder, reqToUse)
			})

			It("should redirect to the parent portal", func() {
				Expect(recorder.Code).To(Equal(http.StatusSeeOther))
				Expect(recorder.Header().Get("Location")).To(Equal("/portal/journal"))
			})
		})

		Context("with refused credentials", func() {
			BeforeEach(func() {
				mockAuth.On("Login", mock.Anything, "claire@garderie.ca", "wrong").
					Return(api.LoginResponse{}, errors.New("401"))
				reqToUse = loginRequest("claire@garderie.ca", "wrong")
			})

			JustBeforeEach(func() {
				factory.Login(recorder, reqToUse)
			})

			It("should re-render the login page without a cookie", func() {
				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(sessionFromCookies()).To(BeNil())
				Expect(recorder.Body.String()).To(ContainSubstring("Se connecter"))
			})
		})
	})

	Context("Logout", func() {

		It("should expire the cookie and redirect to login", func() {
			reqToUse = httptest.NewRequest(http.MethodGet, "/logout", nil)
			factory.Logout(recorder, reqToUse)

			Expect(recorder.Code).To(Equal(http.StatusSeeOther))
			Expect(recorder.Header().Get("Location")).To(Equal("/login"))

			cookies := recorder.Result().Cookies()
			Expect(cookies).NotTo(BeEmpty())
			Expect(cookies[0].MaxAge).To(Equal(-1))
		})
	})
})
