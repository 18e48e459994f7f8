package backend

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/peoplesearch/internal/backend/metrics"
	"github.com/jo-hoe/peoplesearch/internal/core"
)

const (
	ProbePath   = "/probe"
	MetricsPath = "/metrics"

	routeGetPersonByID = "GetPersonById"
)

type APIService struct {
	coreService *core.CoreService
	metrics     *metrics.Metrics
}

// NewAPIService wires the REST handlers. m may be nil to disable /metrics.
func NewAPIService(coreService *core.CoreService, m *metrics.Metrics) *APIService {
	return &APIService{
		coreService: coreService,
		metrics:     m,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET(ProbePath, s.probeHandler)
	if s.metrics != nil {
		e.Use(s.metrics.Middleware(ProbePath, MetricsPath))
		e.GET(MetricsPath, s.metrics.Handler())
	}

	people := e.Group("/api/people")
	people.GET("", s.listPeopleHandler)
	people.GET("/:id", s.getPersonHandler).Name = routeGetPersonByID
	people.POST("", s.createPersonHandler)
	people.PUT("/:id", s.updatePersonHandler)
	people.DELETE("/:id", s.deletePersonHandler)

	image := e.Group("/api/image")
	image.GET("/:id", s.getImageHandler)
	image.GET("/:id/info", s.getImageInfoHandler)
	image.GET("/:id/thumbnail", s.getThumbnailHandler)
	image.PUT("", s.putAvatarHandler, middleware.BodyLimit(putAvatarBodyLimit))
	image.POST("/:personId", s.uploadAvatarHandler)
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.coreService.Ready() {
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "ok")
}

// httpError maps core rejections to their status codes. Anything else is an
// internal error and is logged with the handler name.
func httpError(handler string, err error) error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		status := http.StatusBadRequest
		switch coreErr.Kind {
		case core.KindNotFound:
			status = http.StatusNotFound
		case core.KindConflict:
			status = http.StatusConflict
		}
		slog.Info(handler+": request rejected", "status", status, "kind", coreErr.Kind.String(), "message", coreErr.Message)
		return echo.NewHTTPError(status, coreErr.Message)
	}

	slog.Error(handler+": request failed", "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// pathParam returns a path parameter as an id. Echo routes on the decoded
// URL.Path unless the request carries a distinct RawPath, in which case the
// parameter is still escaped.
func pathParam(ctx echo.Context, name string) string {
	raw := ctx.Param(name)
	if ctx.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
