package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/lostfound/board-api/internal/api/handler"
	"github.com/lostfound/board-api/internal/api/middleware"
	"github.com/lostfound/board-api/internal/core/ports"
)

const bodyLimit = "2M"

// Deps is everything the HTTP layer needs from the outside.
type Deps struct {
	AuthService  ports.AuthService
	ItemService  ports.ItemService
	Tokens       middleware.TokenVerifier
	HealthChecks map[string]handler.PingFunc
	Cookies      handler.CookieConfig
	// ClientURL is the only origin allowed by CORS; credentials are allowed so
	// the refresh cookie can travel.
	ClientURL string
	Logger    zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = strictJSONSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Outside the request logger so it sees the status the error handler wrote.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "lostfound",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.ClientURL},
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, handler.HeaderIdempotencyKey,
		},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Cookies)
	itemHandler := handler.NewItemHandler(deps.ItemService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	requireAuth := middleware.Auth(deps.Tokens, deps.Logger)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Item routes ---
	// /items/user/my-items is registered before /items/:id; Echo prefers static
	// segments anyway.
	items := e.Group("/items")
	items.GET("", itemHandler.List)
	items.GET("/user/my-items", itemHandler.MyItems, requireAuth)
	items.GET("/:id", itemHandler.Get)
	items.POST("", itemHandler.Create, requireAuth)
	items.PUT("/:id", itemHandler.Update, requireAuth)
	items.DELETE("/:id", itemHandler.Delete, requireAuth)
	items.PATCH("/:id/resolve", itemHandler.Resolve, requireAuth)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
