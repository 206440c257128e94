// Package travelblog is the front-end engine of the travel-booking site's
// blog: the public listing with filter/search/sort/pagination, the detail
// page with related posts and likes, and the admin authoring workflow with
// live markdown preview, SEO derivation and draft autosave. All content is
// owned by the travel backend and reached through its REST API; this
// service holds only read caches and in-progress drafts.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// travelblog handles the handler logic, state management, middleware, and
// backend calls.
package travelblog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/professor0121/tmkoc-sub002/blogapi"
	"github.com/professor0121/tmkoc-sub002/content"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	BlogList        func(data BlogListData) templ.Component
	BlogListPartial func(data BlogListData) templ.Component
	BlogPost        func(data BlogPostData) templ.Component
	AdminLogin      func(showError bool, csrfToken string) templ.Component
	AdminDashboard  func(data DashboardData) templ.Component
	AdminEditor     func(data EditorData) templ.Component
	NotFound        func() templ.Component
	ServerError     func() templ.Component
}

// App is the central travelblog application. It wires together the backend
// client, the content controller, the draft store, middleware, and the
// user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	API     *blogapi.Client
	Content *content.Controller
	Drafts  *DraftStore
	Views   ViewFuncs

	creds        blogapi.CredentialProvider
	loginLimiter *loginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a travelblog App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the backend client, content controller, draft store,
// middleware, and routes, and starts the server.
func (a *App) Start() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.creds == nil {
		a.creds = blogapi.StaticCredentials(a.Config.APIToken)
	}
	a.API = blogapi.NewClient(a.Config.APIBaseURL, a.creds)

	a.Content = content.NewController(a.API)
	a.Content.SetPageSize(a.Config.PageSize)

	drafts, err := NewDraftStore(a.Config.DraftDBPath)
	if err != nil {
		return fmt.Errorf("travelblog: init draft store: %w", err)
	}
	a.Drafts = drafts

	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog/", a.handleBlogList)
	e.GET("/blog/:slug/", a.handleBlogPost)
	e.GET("/", handleHomeRedirect)

	// JSON endpoints backing in-page interactions
	e.POST("/api/blog/:id/like", a.handleLike)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/new/", a.handleAdminNew)
	e.GET("/admin/post/:id/", a.handleAdminEdit)
	e.POST("/admin/preview/", a.handleAdminPreview)
	e.POST("/admin/autosave/", a.handleAdminAutosave)
	e.DELETE("/admin/draft/:id/", a.handleAdminDraftDelete)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/images/upload/", a.handleImageUpload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Drafts != nil {
		return a.Drafts.Close()
	}
	return nil
}
