/*
Copyright © 2026 The unifeed authors
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"unifeed/db"
	"unifeed/models"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func refreshCmd() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Refresh the feed and print the aggregated posts",
		Description: `Runs one aggregation pass against all configured sources,
replaces the cached generation and prints every aggregated post as a JSON
object on a single line. Use a tool like jq to process the output.

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
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the JSON output
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

			count, err := service.Refresh(ctx.Context)
			if err != nil {
				return err
			}

			posts, err := service.All(ctx.Context, "", "", false)
			if err != nil {
				return err
			}

			for _, post := range posts {
				printStdout(&post)
			}

			log.WithFields(log.Fields{
				"count": count,
			}).Info("Feed refreshed")

			return nil
		},
	}
}

func printStdout(post *models.Post) {
	// Print as single JSON string on a single line
	postJson, err := json.Marshal(post)
	if err == nil {
		fmt.Println(string(postJson))
	}
}
