package server

import (
	"context"
	"errors"
	"strconv"
	"time"

	"unifeed/feeds"
	"unifeed/models"
	"unifeed/rss"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "unifeed"

// FeedService answers feed queries for the HTTP surface.
type FeedService interface {
	Feed(ctx context.Context, query feeds.FeedQuery) ([]models.Post, error)
	All(ctx context.Context, platform, keyword string, refresh bool) ([]models.Post, error)
	Refresh(ctx context.Context) (int, error)
	Metadata(ctx context.Context) (models.FeedMetadata, error)
}

// ConfigStore reads and writes the singleton feed configuration.
type ConfigStore interface {
	Get() (models.FeedConfig, error)
	Update(cfg models.FeedConfig) (models.FeedConfig, error)
}

type ServerConfig struct {

	// The service answering feed queries
	Service FeedService

	// The store holding the feed configuration
	Config ConfigStore
}

// Returns a fiber.App instance to be used as an HTTP server for the unified feed
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		// Diff
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	app.Get("/api/feed", func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid page")
		}

		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(feeds.DefaultLimit)))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid limit")
		}

		query := feeds.FeedQuery{
			Platform: c.Query("platform"),
			Keyword:  c.Query("keyword"),
			Refresh:  c.QueryBool("refresh", false),
			Page:     page,
			Limit:    limit,
		}

		posts, err := config.Service.Feed(c.Context(), query)
		if errors.Is(err, feeds.ErrInvalidQuery) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting feed")
			return c.Status(fiber.StatusInternalServerError).SendString("Error getting feed")
		}

		return c.JSON(posts)
	})

	app.Get("/api/feed/metadata", func(c *fiber.Ctx) error {
		metadata, err := config.Service.Metadata(c.Context())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting feed metadata")
			return c.Status(fiber.StatusInternalServerError).SendString("Error getting feed metadata")
		}

		return c.JSON(metadata)
	})

	app.Get("/api/feed/rss", func(c *fiber.Ctx) error {
		posts, err := config.Service.All(c.Context(), c.Query("platform"), c.Query("keyword"), false)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting feed for RSS export")
			return c.Status(fiber.StatusInternalServerError).SendString("Error getting feed")
		}

		body, err := rss.Render(posts, rss.DefaultTitle, rss.DefaultDescription)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error rendering RSS")
			return c.Status(fiber.StatusInternalServerError).SendString("Error rendering RSS")
		}

		c.Set(fiber.HeaderContentType, "application/rss+xml")
		return c.Send(body)
	})

	app.Post("/api/feed/refresh", func(c *fiber.Ctx) error {
		count, err := config.Service.Refresh(c.Context())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error refreshing feed")
			return c.Status(fiber.StatusInternalServerError).SendString("Error refreshing feed")
		}

		return c.JSON(fiber.Map{
			"message": "Feed refreshed",
			"count":   count,
		})
	})

	app.Get("/api/config", func(c *fiber.Ctx) error {
		cfg, err := config.Config.Get()
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting config")
			return c.Status(fiber.StatusInternalServerError).SendString("Error getting config")
		}

		return c.JSON(cfg)
	})

	app.Post("/api/config", func(c *fiber.Ctx) error {
		var cfg models.FeedConfig
		if err := c.BodyParser(&cfg); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid config body")
		}

		updated, err := config.Config.Update(cfg)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error updating config")
			return c.Status(fiber.StatusInternalServerError).SendString("Error updating config")
		}

		return c.JSON(fiber.Map{
			"message": "Configuration updated",
			"config":  updated,
		})
	})

	return app
}
