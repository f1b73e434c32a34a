package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docarchive/internal/auth"
	"docarchive/internal/http/middleware"
	"docarchive/internal/repository"
	"docarchive/internal/service"
)

// Deps carries everything the HTTP layer needs. Optional fields may be nil:
// no Verifier disables auth, no Authenticator drops /auth/login, no Subscriber
// drops /stream and no Gatherer drops /metrics.
type Deps struct {
	Health     Pinger
	Categories service.CategoryService
	Documents  service.DocumentService
	Activity   service.ActivityLogService
	Dashboard  service.DashboardService
	System     service.SystemService

	Subscriber    repository.Subscriber
	Verifier      auth.Verifier
	Authenticator Authenticator
	LoginRPS      float64
	LoginBurst    int
	Gatherer      prometheus.Gatherer

	Logger   *slog.Logger
	Location *time.Location
}

// router prepends the auth guard to every protected route.
type router struct {
	app   *fiber.App
	guard []fiber.Handler
}

func (r router) with(h fiber.Handler) []fiber.Handler {
	hs := make([]fiber.Handler, 0, len(r.guard)+1)
	return append(append(hs, r.guard...), h)
}

func (r router) get(path string, h fiber.Handler)    { r.app.Get(path, r.with(h)...) }
func (r router) post(path string, h fiber.Handler)   { r.app.Post(path, r.with(h)...) }
func (r router) put(path string, h fiber.Handler)    { r.app.Put(path, r.with(h)...) }
func (r router) delete(path string, h fiber.Handler) { r.app.Delete(path, r.with(h)...) }

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app.Get("/health", HealthCheck(d.Health))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	if d.Authenticator != nil {
		app.Post("/auth/login", middleware.RateLimit(d.LoginRPS, d.LoginBurst), Login(d.Authenticator, logger))
	}

	r := router{app: app}
	if d.Verifier != nil {
		r.guard = []fiber.Handler{middleware.RequireAuth(d.Verifier)}
	}

	r.get("/categories", ListCategories(d.Categories, logger))
	r.post("/categories", CreateCategory(d.Categories, logger))
	r.get("/categories/:id", GetCategory(d.Categories, logger))
	r.put("/categories/:id", UpdateCategory(d.Categories, logger))
	r.delete("/categories/:id", DeleteCategory(d.Categories, logger))

	docs := NewDocumentHandlers(d.Documents, logger, d.Location)
	r.get("/documents", docs.List)
	r.get("/documents/export", docs.Export)
	r.post("/documents", docs.Create)
	r.get("/documents/:id", docs.Get)
	r.put("/documents/:id", docs.Update)
	r.delete("/documents/:id", docs.Delete)
	r.get("/documents/:id/download", docs.Download)
	r.get("/documents/:id/url", docs.URL)

	r.get("/activity-log", ListActivity(d.Activity, logger))
	r.get("/dashboard", Dashboard(d.Dashboard, logger))
	r.delete("/system/data", ResetData(d.System, logger))

	if d.Subscriber != nil {
		r.get("/stream/:collection", Stream(d.Subscriber, logger))
	}
}
