package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vectorbroker",
		Usage: "Semantic search broker in front of an embedding provider and a vector index",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP broker",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "env-file",
						Aliases: []string{"e"},
						Usage:   "Load environment from `FILE` (repeatable); defaults to ./.env if present",
					},
				},
			},
			{
				Name:   "probe",
				Usage:  "Check a running broker: health, namespaces, then one query",
				Action: probeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Broker base URL",
						Value: "http://localhost:3000",
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Query text",
						Value: "What is this index about?",
					},
					&cli.IntFlag{
						Name:  "random-dim",
						Usage: "Send a random vector of this length instead of text",
					},
					&cli.StringFlag{
						Name:  "namespace",
						Usage: "Namespace to query; empty uses the broker default",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of matches to request",
						Value: 5,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall probe timeout",
						Value: defaultProbeTimeout,
					},
				},
			},
		},
	}
}
