/*
Copyright © 2026 The unifeed authors
*/
package cmd

import (
	"fmt"
	"os"

	"unifeed/db"
	"unifeed/rss"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the feed as RSS 2.0 XML",
		Description: `Renders the unified feed as an RSS 2.0 document on stdout.

Serves from the cache when it is fresh, otherwise runs an aggregation pass
first. The same platform and keyword filters as the HTTP API apply.

Prints all log messages to stderr.`,
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
			&cli.StringFlag{
				Name:  "platform",
				Usage: "Only include posts from this platform",
			},
			&cli.StringFlag{
				Name:  "keyword",
				Usage: "Only include posts whose title contains this keyword",
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the XML output
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			if err := db.Migrate(cfg.Database); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			service, _, database, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			posts, err := service.All(ctx.Context, ctx.String("platform"), ctx.String("keyword"), false)
			if err != nil {
				return err
			}

			body, err := rss.Render(posts, rss.DefaultTitle, rss.DefaultDescription)
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(append(body, '\n'))
			return err
		},
	}
}
