package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/amaken/backend/internal/config"
	"github.com/amaken/backend/internal/controllers/healthz"
	v1 "github.com/amaken/backend/internal/controllers/v1"
	"github.com/amaken/backend/internal/controllers/webhooks"
	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config sets up the router and all middlewares.
func Config(url *url.URL) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "This HTTP method is not allowed for the endpoint you called",
		})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	if err := registerPrometheusMetrics(); err != nil {
		return nil, err
	}
	r.Use(MetricsMiddleware())

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Info().Str("version", version).Msg("Router")

	return r, nil
}

// AttachRoutes attaches the API routes to the router group that is
// passed in. Separating this from Config allows tests to attach the
// routes to a fresh engine.
func AttachRoutes(cfg *config.Config, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthz.RegisterRoutes(group.Group("/healthz"))

	tokens := identity.NewTokenService(cfg.JWT.Secret, cfg.JWT.Lifetime, cfg.JWT.Issuer)

	// API v1 setup
	apiV1 := group.Group("/v1")
	{
		apiV1.GET("", GetV1)
		apiV1.OPTIONS("", OptionsV1)
	}

	v1.RegisterSessionRoutes(apiV1.Group("/session"), tokens)

	// Everything else in v1 requires a session
	authed := apiV1.Group("")
	authed.Use(identity.SessionMiddleware(&identity.SessionResolver{Tokens: tokens}))

	v1.RegisterProjectRoutes(authed.Group("/projects"))
	v1.RegisterUnitRoutes(authed.Group("/units"))
	v1.RegisterResidentRoutes(authed.Group("/residents"))
	v1.RegisterStaffRoutes(authed.Group("/staff"))
	v1.RegisterTechnicianRoutes(authed.Group("/technicians"))
	v1.RegisterTicketRoutes(authed.Group("/tickets"))
	v1.RegisterInvoiceRoutes(authed.Group("/invoices"))
	v1.RegisterPaymentRoutes(authed.Group("/payments"))
	v1.RegisterPayrollEntryRoutes(authed.Group("/payroll-entries"))
	v1.RegisterPMAdvanceRoutes(authed.Group("/pm-advances"))
	v1.RegisterUserRoutes(authed.Group("/users"))
	v1.RegisterAccountingNoteRoutes(authed.Group("/accounting-notes"))

	// Webhooks for the automation agent, authenticated by API key
	// The audit wrapper sits outside the key check so rejected calls are
	// logged too
	hooks := group.Group("/webhooks")
	hooks.Use(webhooks.AuditMiddleware())
	hooks.Use(webhooks.APIKeyMiddleware(cfg.WebhookAPIKey))

	webhooks.RegisterProjectManagerRoutes(hooks.Group("/project-managers"))
	webhooks.RegisterQueryRoutes(hooks.Group("/query"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"`
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`
	Version string `json:"version" example:"https://example.com/api/version"`
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`
	V1      string `json:"v1" example:"https://example.com/api/v1"`
}

// @Summary		API root
// @Description	Entrypoint for the API, listing all endpoints
// @Tags			General
// @Success		200	{object}	RootResponse
// @Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Session         string `json:"session" example:"https://example.com/api/v1/session"`
	Projects        string `json:"projects" example:"https://example.com/api/v1/projects"`
	Units           string `json:"units" example:"https://example.com/api/v1/units"`
	Residents       string `json:"residents" example:"https://example.com/api/v1/residents"`
	Staff           string `json:"staff" example:"https://example.com/api/v1/staff"`
	Technicians     string `json:"technicians" example:"https://example.com/api/v1/technicians"`
	Tickets         string `json:"tickets" example:"https://example.com/api/v1/tickets"`
	Invoices        string `json:"invoices" example:"https://example.com/api/v1/invoices"`
	Payments        string `json:"payments" example:"https://example.com/api/v1/payments"`
	PayrollEntries  string `json:"payrollEntries" example:"https://example.com/api/v1/payroll-entries"`
	PMAdvances      string `json:"pmAdvances" example:"https://example.com/api/v1/pm-advances"`
	Users           string `json:"users" example:"https://example.com/api/v1/users"`
	AccountingNotes string `json:"accountingNotes" example:"https://example.com/api/v1/accounting-notes"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			General
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	base := c.GetString(string(models.DBContextURL)) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Session:         base + "/session",
			Projects:        base + "/projects",
			Units:           base + "/units",
			Residents:       base + "/residents",
			Staff:           base + "/staff",
			Technicians:     base + "/technicians",
			Tickets:         base + "/tickets",
			Invoices:        base + "/invoices",
			Payments:        base + "/payments",
			PayrollEntries:  base + "/payroll-entries",
			PMAdvances:      base + "/pm-advances",
			Users:           base + "/users",
			AccountingNotes: base + "/accounting-notes",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
