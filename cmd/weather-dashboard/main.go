package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)
	if cfg.OpenWeatherAPIKey == "" {
		log.Warn("OPENWEATHER_API_KEY is not set; every fetch will fail")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Provider with circuit breaker, rate limit and metrics.
	gateway := providers.NewInstrumentedGateway(
		providers.NewRateLimitedGateway(
			providers.NewOpenWeatherGateway(httpClient, cfg.OpenWeatherAPIKey,
				providers.WithBaseURL(cfg.OpenWeatherBaseURL),
				providers.WithLanguage(cfg.Language),
			),
			cfg.ProviderRPS, cfg.ProviderBurst,
		),
		m,
	)

	locator, err := newLocator(cfg.Geo)
	if err != nil {
		log.Fatalf("failed to set up geolocation: %v", err)
	}

	// In-session history with configured retention.
	history := store.NewMemoryStore(cfg.HistoryMax, cfg.HistoryMaxAge)

	ctrl := dashboard.NewController(gateway, locator,
		dashboard.WithLogger(log),
		dashboard.WithHistory(history),
		dashboard.WithMetrics(m),
		dashboard.WithFetchTimeout(cfg.FetchTimeout),
		dashboard.WithLocateTimeout(cfg.FetchTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		if err := ctrl.Run(ctx); err != nil {
			log.Errorf("dashboard controller stopped: %v", err)
		}
	}()

	if err := ctrl.Initialize(); err != nil {
		log.Fatalf("failed to initialize dashboard: %v", err)
	}

	// Scheduler that periodically refreshes the current city.
	if cfg.RefreshInterval > 0 {
		sched := scheduler.New(cfg.RefreshInterval, ctrl, log)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, ctrl, history)

	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
	<-ctrlDone
}

func newLogger(cfg *config.AppConfig) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// newLocator returns nil when geolocation is disabled so the dashboard
// reports the capability as absent.
func newLocator(g config.GeoConfig) (geo.Locator, error) {
	switch g.Mode {
	case config.GeoModeStatic:
		l, err := geo.NewStaticLocator(g.Coordinates)
		if err != nil {
			return nil, err
		}
		return l, nil
	case config.GeoModeAddress:
		l, err := geo.NewAddressLocator(g.GeocoderAPIKey, g.City, g.State, g.Country)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, nil
	}
}
