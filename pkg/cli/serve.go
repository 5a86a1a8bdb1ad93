package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/namer/pkg/metrics"
	"github.com/m-mizutani/namer/pkg/server"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

func serveCommand(cfg *config) *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and Prometheus metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address",
				Value:       "127.0.0.1:8080",
				Sources:     cli.EnvVars("NAMER_ADDR"),
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, err := cfg.newBackend(ctx)
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			collector := metrics.NewCollector(registry)

			acct, err := cfg.openAccount(ctx, favorites.WithRecorder(collector))
			if err != nil {
				return err
			}
			defer acct.Close()

			sg := suggest.New(backend, suggest.WithRecorder(collector))
			srv := server.New(sg, acct.favorites, acct.session, server.WithMetrics(registry))
			return srv.Run(ctx, addr)
		},
	}
}
