package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/moneymanager/money-api/internal/api/handler"
	"github.com/moneymanager/money-api/internal/api/middleware"
	"github.com/moneymanager/money-api/internal/core/ports"

	_ "github.com/moneymanager/money-api/docs"
)

// Deps carries everything NewRouter wires into handlers.
type Deps struct {
	BasePath    string
	CORSOrigins []string
	Log         zerolog.Logger

	Auth      ports.AuthService
	Tokens    ports.TokenService
	Incomes   ports.TransactionService
	Expenses  ports.TransactionService
	Dashboard ports.DashboardService
	Profile   ports.ProfileService

	// Checks are run by /health/ready, keyed by dependency name.
	Checks map[string]handler.Check
}

// The Prometheus collectors behind the middleware may only be registered once
// per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("moneymanager")
})

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(requestLogger(d.Log))
	e.Use(httpMetrics())

	// --- Operational endpoints (outside the base path) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authMW := middleware.Auth(d.Tokens)
	authHandler := handler.NewAuthHandler(d.Auth)
	publicHandler := handler.NewPublicHandler(d.Tokens, d.BasePath)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	profileHandler := handler.NewProfileHandler(d.Profile)

	api := e.Group(d.BasePath)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, authMW)

	// --- Public routes (no auth required) ---
	public := api.Group("/public")
	public.GET("/health", publicHandler.Health)
	public.GET("/auth-check", publicHandler.AuthCheck)
	public.POST("/token-info", publicHandler.TokenInfo)
	api.GET("/utils/categories", publicHandler.Categories)

	// --- Ledger routes ---
	handler.NewTransactionHandler(d.Incomes).Register(api.Group("/income", authMW))
	handler.NewTransactionHandler(d.Expenses).Register(api.Group("/expense", authMW))

	dashboard := api.Group("/dashboard", authMW)
	dashboard.GET("", dashboardHandler.Get)
	dashboard.POST("/date-range", dashboardHandler.DateRange)
	dashboard.GET("/statement", dashboardHandler.Statement)

	user := api.Group("/user", authMW)
	user.GET("/profile", profileHandler.Get)
	user.PUT("/profile", profileHandler.Update)
	user.POST("/change-password", profileHandler.ChangePassword)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
