package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/peoplesearch/internal/backend"
	"github.com/jo-hoe/peoplesearch/internal/backend/metrics"
	"github.com/jo-hoe/peoplesearch/internal/common"
	"github.com/jo-hoe/peoplesearch/internal/core"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	level, err := core.ParseLogLevel(config.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	var m *metrics.Metrics
	var opts []core.Option
	if config.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, core.WithAvatarObserver(m))
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	coreService, err := core.NewCoreService(startCtx, config, opts...)
	cancelStart()
	if err != nil {
		slog.Error("failed to start core service", "databaseType", config.Database.Type, "error", err)
		os.Exit(1)
	}

	server := defineServer()
	backend.NewAPIService(coreService, m).SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	go func() {
		slog.Info("http server starting", "address", portString)
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
}

func defineServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// probes are polled constantly, keep them out of the request log
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == backend.ProbePath
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remoteIP", v.RemoteIP,
				"userAgent", v.UserAgent,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = common.NewGenericEchoValidator()

	return e
}
