package router // package router builds the Echo instance and registers every route

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hbnb/internal/config"
	"github.com/iliyamo/hbnb/internal/handler"
	"github.com/iliyamo/hbnb/internal/middleware"
	"github.com/iliyamo/hbnb/internal/service"
)

// Deps are the collaborators the routes need.  Redis and DB may be nil:
// without Redis the rate limiter and cache are pass-through, without DB
// (memory storage) /readyz is always ready.
type Deps struct {
	Facade    *service.Facade
	JWTSecret string
	AccessTTL time.Duration
	Logger    zerolog.Logger

	Redis          *redis.Client
	Cache          config.CacheConfig
	RateLimit      config.RateLimitConfig
	LoginRateLimit config.RateLimitConfig

	DB handler.Pinger
}

// New returns a configured Echo instance with all routes mounted.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = errorHandler

	// /places/ and /places hit the same route
	e.Pre(echomw.RemoveTrailingSlash())

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Metrics())
	e.Use(echomw.Recover())

	RegisterRoutes(e, d.DB)
	RegisterAPI(e, d)
	return e
}

// RegisterRoutes registers the operational endpoints, which are never rate
// limited nor cached.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// errorHandler renders errors that never reached a handler (unknown route,
// wrong method, recovered panic) in the same {"error": ...} shape the
// handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}
