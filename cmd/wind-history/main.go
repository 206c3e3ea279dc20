package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/aruizh/wind-history/internal/api/http"
	"github.com/aruizh/wind-history/internal/config"
	"github.com/aruizh/wind-history/internal/geo"
	"github.com/aruizh/wind-history/internal/provider"
	"github.com/aruizh/wind-history/internal/scheduler"
	"github.com/aruizh/wind-history/internal/store"
	"github.com/aruizh/wind-history/internal/wind"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	loc := wind.Location{City: cfg.City, Country: cfg.Country, Lat: cfg.Lat, Lon: cfg.Lon}
	if loc.Lat == nil || loc.Lon == nil {
		lat, lon, err := geo.Resolve(cfg.City, cfg.Country, cfg.GeocoderAPIKey)
		if err != nil {
			log.Fatalf("failed to resolve location: %v", err)
		}
		loc.Lat, loc.Lon = &lat, &lon
		log.Printf("INFO: resolved %s to %f,%f", loc.Key(), lat, lon)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var prov wind.Provider
	switch cfg.Provider {
	case "nasapower":
		prov = provider.NewNASAPowerProvider(httpClient, cfg.NASAVariables)
	case "visualcrossing":
		prov = provider.NewVisualCrossingProvider(httpClient, cfg.VCAPIKey)
	default:
		log.Fatalf("unknown WIND_PROVIDER %q", cfg.Provider)
	}

	var hist wind.HistoryStore
	switch cfg.CacheBackend {
	case "file":
		hist = store.NewFileStore(cfg.CacheFile)
	case "memory":
		hist = store.NewMemoryStore()
	case "redis":
		client, err := store.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer client.Close()
		hist = store.NewRedisStore(client, cfg.RedisKey)
	default:
		log.Fatalf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	service := wind.NewService(hist, prov, wind.ServiceConfig{
		Location:     loc,
		Epoch:        cfg.HistoryEpoch,
		MaxSpan:      time.Duration(cfg.MaxSpanDays) * 24 * time.Hour,
		RequestDelay: cfg.RequestDelay,
	})

	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "wind-history",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "wind-history",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
