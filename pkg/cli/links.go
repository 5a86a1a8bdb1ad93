package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/urfave/cli/v3"
)

func linksCommand() *cli.Command {
	var explanation string

	return &cli.Command{
		Name:      "links",
		Usage:     "Print search and share links for a handle",
		ArgsUsage: "<handle>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "explanation",
				Usage:       "Text appended to the share message",
				Destination: &explanation,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			handle := c.Args().First()
			if handle == "" {
				return goerr.New("handle is required")
			}
			printLinks(c.Root().Writer, &model.IdentityIdea{Handle: handle, Explanation: explanation})
			return nil
		},
	}
}
