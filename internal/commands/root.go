package commands

import (
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "postboard",
		Usage: "A small HTTP API for posts backed by a document store",
		Description: `Serves create, read, update and delete operations on posts, a
		token gated listing and a cookie snapshot of the post list.

		Flags can generally be set via environment variables, e.g.:

		--port => POSTBOARD_PORT=4000
		--mongo-uri => POSTBOARD_MONGO_URI=mongodb://localhost:27017/
		`,
		Commands: []*cli.Command{
			serveCmd(),
			tokenCmd(),
			hashSecretCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
