package main

import (
	"context"
	"net/http"
	"os"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/children"
	"github.com/minigarde/portal/documents"
	"github.com/minigarde/portal/journal"
	"github.com/minigarde/portal/login"
	"github.com/minigarde/portal/privacy"
	"github.com/minigarde/portal/session"
	. "github.com/minigarde/portal/shared"
	"github.com/minigarde/portal/tenant"
	"github.com/minigarde/portal/views"

	"github.com/facebookgo/inject"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
)

var (
	ctx    = context.Background()
	logger = NewLogger("minigarde-portal")
	config *AppConfig

	apiClient *api.Client
	renderer  = &views.Renderer{}

	journalService  = &journal.Service{}
	childrenService = &children.Service{}
	documentService = &documents.Service{}
	privacyService  = &privacy.Service{}
	tenantService   = &tenant.Service{}

	loginHandlerFactory    = &login.HandlerFactory{}
	journalHandlerFactory  = &journal.HandlerFactory{}
	childrenHandlerFactory = &children.HandlerFactory{}
	documentHandlerFactory = &documents.HandlerFactory{}
	privacyHandlerFactory  = &privacy.HandlerFactory{}
	tenantHandlerFactory   = &tenant.HandlerFactory{}

	sessionMiddleware = &session.Middleware{}
)

func init() {
	checkErrAndExit(initAppConfiguration())
	checkErrAndExit(initApplicationGraph())
	checkErrAndExit(initTemplates())
}

func initAppConfiguration() (err error) {
	config, err = InitAppConfiguration()
	return
}

func initApplicationGraph() error {
	apiClient = api.NewClient(config.ApiProtocol, config.ApiHostname)

	journalService.Debounce = config.AutosaveDebounce()
	journalService.IdleTtl = config.EditSessionTtl()
	sessionMiddleware.CookieName = config.SessionCookieName
	loginHandlerFactory.CookieName = config.SessionCookieName

	g := inject.Graph{}
	if err := g.Provide(
		&inject.Object{Value: logger},
		&inject.Object{Value: renderer},
		&inject.Object{Value: apiClient},
		&inject.Object{Value: journalService},
		&inject.Object{Value: childrenService},
		&inject.Object{Value: documentService},
		&inject.Object{Value: privacyService},
		&inject.Object{Value: tenantService},
		&inject.Object{Value: loginHandlerFactory},
		&inject.Object{Value: journalHandlerFactory},
		&inject.Object{Value: childrenHandlerFactory},
		&inject.Object{Value: documentHandlerFactory},
		&inject.Object{Value: privacyHandlerFactory},
		&inject.Object{Value: tenantHandlerFactory},
		&inject.Object{Value: sessionMiddleware},
	); err != nil {
		return err
	}
	return g.Populate()
}

func initTemplates() error {
	return renderer.Load(config.TemplatesPath)
}

func main() {
	router := mux.NewRouter()

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(config.StaticPath))))

	router.HandleFunc("/login", loginHandlerFactory.LoginPage).Methods(http.MethodGet)
	router.HandleFunc("/login", loginHandlerFactory.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", loginHandlerFactory.Logout).Methods(http.MethodPost, http.MethodGet)

	journalOpts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(journal.EncodeError),
	}
	privacyOpts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(privacy.EncodeError),
	}

	staff := router.PathPrefix("/").Subrouter()
	staff.Use(sessionMiddleware.RequireSession, sessionMiddleware.RequireStaff)
	staff.HandleFunc("/journal", journalHandlerFactory.Page).Methods(http.MethodGet)
	staff.Handle("/journal/edit", journalHandlerFactory.EditField(journalOpts)).Methods(http.MethodPost)
	staff.Handle("/journal/save", journalHandlerFactory.Save(journalOpts)).Methods(http.MethodPost)
	staff.HandleFunc("/journal/{childId}/send", journalHandlerFactory.Send).Methods(http.MethodPost)
	staff.HandleFunc("/journal/send-all", journalHandlerFactory.SendAll).Methods(http.MethodPost)
	staff.HandleFunc("/children", childrenHandlerFactory.Roster).Methods(http.MethodGet)
	staff.HandleFunc("/children/export", childrenHandlerFactory.Export).Methods(http.MethodGet)
	staff.HandleFunc("/documents", documentHandlerFactory.Library).Methods(http.MethodGet)

	admin := router.PathPrefix("/").Subrouter()
	admin.Use(sessionMiddleware.RequireSession, sessionMiddleware.RequireAdmin)
	admin.HandleFunc("/children/new", childrenHandlerFactory.NewForm).Methods(http.MethodGet)
	admin.HandleFunc("/children/new", childrenHandlerFactory.Create).Methods(http.MethodPost)
	admin.HandleFunc("/children/{childId}/edit", childrenHandlerFactory.EditForm).Methods(http.MethodGet)
	admin.HandleFunc("/children/{childId}/edit", childrenHandlerFactory.Update).Methods(http.MethodPost)
	admin.HandleFunc("/children/{childId}/delete", childrenHandlerFactory.Delete).Methods(http.MethodPost)
	admin.HandleFunc("/children/{childId}/parents", childrenHandlerFactory.Parents).Methods(http.MethodGet)
	admin.HandleFunc("/children/{childId}/parents", childrenHandlerFactory.AssignParent).Methods(http.MethodPost)
	admin.HandleFunc("/children/{childId}/parents/{userId}/remove", childrenHandlerFactory.RemoveParent).Methods(http.MethodPost)
	admin.HandleFunc("/tenant", tenantHandlerFactory.Page).Methods(http.MethodGet)
	admin.HandleFunc("/tenant/logo", tenantHandlerFactory.UploadLogo).Methods(http.MethodPost)
	admin.HandleFunc("/tenant/logo/delete", tenantHandlerFactory.DeleteLogo).Methods(http.MethodPost)
	admin.HandleFunc("/tenant/settings", tenantHandlerFactory.UpdateSettings).Methods(http.MethodPost)

	parent := router.PathPrefix("/portal").Subrouter()
	parent.Use(sessionMiddleware.RequireSession, sessionMiddleware.RequireParent)
	parent.HandleFunc("/journal", journalHandlerFactory.ParentPage).Methods(http.MethodGet)
	parent.HandleFunc("/documents", documentHandlerFactory.ParentLibrary).Methods(http.MethodGet)
	parent.HandleFunc("/privacy", privacyHandlerFactory.Page).Methods(http.MethodGet)
	parent.Handle("/privacy/consent", privacyHandlerFactory.UpdateConsent(privacyOpts)).Methods(http.MethodPut)
	parent.HandleFunc("/privacy/password", privacyHandlerFactory.ChangePassword).Methods(http.MethodPost)
	parent.HandleFunc("/privacy/email", privacyHandlerFactory.UpdateEmail).Methods(http.MethodPost)
	parent.HandleFunc("/privacy/delete-account", privacyHandlerFactory.RequestDeletion).Methods(http.MethodPost)
	parent.HandleFunc("/export", privacyHandlerFactory.Export).Methods(http.MethodGet)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	logger.Info(ctx, "portal ready", "addr", config.ListenAddr)
	checkErrAndExit(http.ListenAndServe(config.ListenAddr, logger.RequestLoggerMiddleware(router)))
}

func checkErrAndExit(err error) {
	if err != nil {
		logger.Err(ctx, err.Error())
		os.Exit(1)
	}
}
