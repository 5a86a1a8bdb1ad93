package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/namer/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	var (
		cfg       config
		logCloser io.Closer
	)

	flags := loggingFlags(&cfg)
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	cmd := &cli.Command{
		Name:  "namer",
		Usage: "AI brand name and domain ideas with availability checks",
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logging.Open(cfg.logLevel, cfg.logOutput)
			if err != nil {
				return ctx, err
			}
			logCloser = closer
			logging.SetDefault(logger)
			return logging.With(ctx, logger), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
		Commands: []*cli.Command{
			generateCommand(&cfg),
			checkCommand(&cfg),
			avatarCommand(&cfg),
			savedCommand(&cfg),
			loginCommand(&cfg),
			logoutCommand(&cfg),
			whoamiCommand(&cfg),
			linksCommand(),
			shellCommand(&cfg),
			serveCommand(&cfg),
			mcpCommand(&cfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", logging.ErrAttr(err))
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
