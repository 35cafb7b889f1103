/*
Copyright © 2026 The unifeed authors
*/
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "unifeed",
		Usage: "A unified feed aggregating posts from multiple social platforms",
		Description: `Aggregates posts from Reddit, YouTube, Instagram and Twitter/X
		into one unified feed served over an HTTP API, both as JSON and as
		RSS 2.0 XML.

		Sources are fetched over their public RSS/Atom endpoints (with RSSHub
		bridging the platforms that have none), normalized into one canonical
		post schema and cached in an SQLite database for ten minutes.

		Flags can generally be set via environment variables, e.g.:

		--database => UNIFEED_DATABASE=unifeed.db
		--port => UNIFEED_PORT=8001
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			refreshCmd(),
			exportCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
