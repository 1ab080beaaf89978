package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

const appVersion = "0.1.0"

// newApp builds the daemon's command-line surface: a single long-running
// "run" command plus the config/metrics flags it needs, in the shape of the
// teacher's urfave/cli/v2 command wiring.
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "meshd"
	app.Usage = "peer-to-peer virtual network daemon"
	app.Version = appVersion
	app.ErrWriter = os.Stderr

	runFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "path to the daemon's YAML configuration file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "address to serve Prometheus metrics on (empty disables it)",
			Value: "",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "start the mesh daemon",
			Flags:  runFlags,
			Action: run,
		},
	}
	app.Action = func(c *cli.Context) error {
		return cli.ShowAppHelp(c)
	}
	return app
}
