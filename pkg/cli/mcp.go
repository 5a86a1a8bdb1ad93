package cli

import (
	"context"

	"github.com/m-mizutani/namer/pkg/service/mcp"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/urfave/cli/v3"
)

func mcpCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the name tools over MCP on stdin/stdout",
		Action: func(ctx context.Context, c *cli.Command) error {
			backend, err := cfg.newBackend(ctx)
			if err != nil {
				return err
			}

			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			return mcp.NewServer(suggest.New(backend), acct.favorites).Run(ctx)
		},
	}
}
