package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func checkCommand(cfg *config) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "check",
		Usage:     "Check whether a handle is already used on the web",
		ArgsUsage: "<handle>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			handle := c.Args().First()
			if handle == "" {
				return goerr.New("handle is required")
			}

			backend, err := cfg.newBackend(ctx)
			if err != nil {
				return err
			}

			sp := newSpinner(c.Root().ErrWriter, "Checking "+handle+"...")
			sp.Start()
			analysis := backend.CheckIdentityPresence(ctx, handle)
			sp.Stop()

			if asJSON {
				return printJSON(c.Root().Writer, analysis)
			}
			printAnalysis(c.Root().Writer, analysis)
			return nil
		},
	}
}
