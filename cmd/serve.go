/*
Copyright © 2026 The unifeed authors
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"unifeed/aggregator"
	"unifeed/config"
	"unifeed/db"
	"unifeed/feeds"
	"unifeed/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the unified feed API",
		Description: `Starts the unified feed HTTP server.

Runs database migrations, opens the SQLite database and serves the feed,
config and RSS endpoints. The first feed request aggregates posts from all
configured sources; subsequent requests are answered from the cache until
it goes stale.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file location",
				EnvVars: []string{"UNIFEED_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "unifeed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"UNIFEED_DATABASE"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8001,
				Usage:   "Port to listen on",
				EnvVars: []string{"UNIFEED_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Database configured: ", cfg.Database)
			if err := db.Migrate(cfg.Database); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			service, configStore, database, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			app := server.Server(&server.ServerConfig{
				Service: service,
				Config:  configStore,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)

			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.Error("Error shutting down server", err)
				}
			}()

			log.WithFields(log.Fields{
				"port": cfg.Port,
			}).Info("Starting server")

			return app.Listen(fmt.Sprintf(":%d", cfg.Port))
		},
	}
}

// loadConfig merges the optional TOML file with the command line flags.
// Flags win when set explicitly.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()

	if path := ctx.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if ctx.IsSet("database") {
		cfg.Database = ctx.String("database")
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}

	return cfg, nil
}

// buildService wires the stores, connectors and aggregator into the feed
// service. The caller owns the returned database handle.
func buildService(cfg config.Config) (*feeds.Service, *db.ConfigStore, *db.DB, error) {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	cacheStore := db.NewCacheStore(database)
	configStore := db.NewConfigStore(database, cacheStore)
	agg := aggregator.New(cacheStore, aggregator.DefaultRegistrations(cfg.ConnectorOptions()))
	service := feeds.NewService(configStore, cacheStore, agg, cfg.CacheTTL())

	return service, configStore, database, nil
}
