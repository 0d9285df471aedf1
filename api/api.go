// Package api is the stateless translation layer between HTTP and the
// repositories. Handlers parse and validate the request, resolve the
// bicycle through the lifecycle repository, dispatch one repository call
// and map the result or its typed failure to a response. They never
// invent failure kinds of their own.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veloguard/tracker-backend/bicycle"
	"github.com/veloguard/tracker-backend/contact"
	"github.com/veloguard/tracker-backend/internal/auth0"
	"github.com/veloguard/tracker-backend/internal/middleware"
	"github.com/veloguard/tracker-backend/internal/o11y"
	"github.com/veloguard/tracker-backend/rider"
	"github.com/veloguard/tracker-backend/safety"
	"github.com/veloguard/tracker-backend/telemetry"
)

type Config struct {
	Auth0Domain string
	Audience    string

	MetricsUsername string
	MetricsPassword string

	AdminUsername string
	AdminPassword string
}

type API struct {
	r   *gin.Engine
	br  *bicycle.Repository
	tr  *telemetry.Repository
	sr  *safety.Repository
	rr  *rider.Repository
	cr  *contact.Repository
	idp auth0.Client
}

func New(
	br *bicycle.Repository,
	tr *telemetry.Repository,
	sr *safety.Repository,
	rr *rider.Repository,
	cr *contact.Repository,
	idp auth0.Client,
	obs *o11y.Observability,
	cfg Config,
) (*API, error) {
	jwt, err := middleware.JWT(cfg.Auth0Domain, cfg.Audience)
	if err != nil {
		return nil, err
	}
	return NewWithAuth(br, tr, sr, rr, cr, idp, obs, cfg, jwt), nil
}

// NewWithAuth is New with the bearer-token validator swapped out.
// Acceptance tests use it with a header-based fake so they can act as
// arbitrary riders.
func NewWithAuth(
	br *bicycle.Repository,
	tr *telemetry.Repository,
	sr *safety.Repository,
	rr *rider.Repository,
	cr *contact.Repository,
	idp auth0.Client,
	obs *o11y.Observability,
	cfg Config,
	auth gin.HandlerFunc,
) *API {
	a := &API{
		r:   gin.New(),
		br:  br,
		tr:  tr,
		sr:  sr,
		rr:  rr,
		cr:  cr,
		idp: idp,
	}

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.Tracing())
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metrics := a.r.Group("/metrics", gin.BasicAuth(gin.Accounts{
		cfg.MetricsUsername: cfg.MetricsPassword,
	}))
	metrics.GET("", gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})))

	a.registerRoutes(auth, gin.BasicAuth(gin.Accounts{
		cfg.AdminUsername: cfg.AdminPassword,
	}))

	return a
}

// registerRoutes hangs the three route surfaces off the engine: the
// rider-facing app routes, the admin routes and the device ingest
// routes. Acceptance tests call this directly with a fake auth
// middleware in place of JWT validation.
func (a *API) registerRoutes(auth gin.HandlerFunc, adminAuth gin.HandlerFunc) {
	app := a.r.Group("/", auth)
	{
		app.GET("/bicycles", a.listBicyclesHandler)
		app.POST("/bicycles/link", a.linkBicycleHandler)
		app.GET("/bicycles/:id", a.getBicycleHandler)
		app.POST("/bicycles/:id/active", a.setActiveHandler)

		app.GET("/bicycles/:id/location", a.currentPositionHandler)
		app.GET("/bicycles/:id/location/history", a.positionHistoryHandler)

		app.GET("/bicycles/:id/panic", a.safetyStatusHandler(safety.Panic))
		app.POST("/bicycles/:id/panic", a.safetySetHandler(safety.Panic))
		app.GET("/bicycles/:id/geofence-lock", a.safetyStatusHandler(safety.GeofenceLock))
		app.POST("/bicycles/:id/geofence-lock", a.safetySetHandler(safety.GeofenceLock))
		app.GET("/bicycles/:id/impacts", a.listImpactsHandler)

		app.GET("/profile", a.getProfileHandler)
		app.PUT("/profile", a.updateProfileHandler)

		app.GET("/contacts", a.listContactsHandler)
		app.POST("/contacts", a.addContactHandler)
		app.PUT("/contacts/:contactId", a.updateContactHandler)
		app.DELETE("/contacts/:contactId", a.deleteContactHandler)
	}

	admin := a.r.Group("/admin", adminAuth)
	{
		admin.GET("/bicycles", a.adminListBicyclesHandler)
		admin.POST("/bicycles", a.adminRegisterBicycleHandler)
		admin.PUT("/bicycles/:id", a.adminReassignBicycleHandler)
	}

	// Device routes are keyed by hardware code; the tracking unit knows
	// nothing about rider accounts.
	devices := a.r.Group("/devices")
	{
		devices.POST("/:code/location", a.deviceReportPositionHandler)
		devices.POST("/:code/impacts", a.deviceReportImpactHandler)
	}
}

func (a *API) Router() *gin.Engine {
	return a.r
}
