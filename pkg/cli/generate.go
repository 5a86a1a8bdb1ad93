package cli

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/urfave/cli/v3"
)

func generateCommand(cfg *config) *cli.Command {
	var (
		asJSON bool
		check  bool
	)

	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate name ideas for a description",
		ArgsUsage: "<description...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result as JSON",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "check",
				Aliases:     []string{"c"},
				Usage:       "Check the availability of every idea",
				Destination: &check,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			prompt := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(prompt) == "" {
				return goerr.New("description is required")
			}

			backend, err := cfg.newBackend(ctx)
			if err != nil {
				return err
			}

			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			sg := suggest.New(backend)

			sp := newSpinner(c.Root().ErrWriter, "Generating ideas...")
			sp.Start()
			err = sg.Submit(ctx, prompt)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to generate ideas")
			}

			view := sg.View()
			var analyses map[string]*model.IdentityAnalysis
			if check {
				sp := newSpinner(c.Root().ErrWriter, "Checking availability...")
				sp.Start()
				analyses, err = analyzeAll(ctx, sg, view.Results)
				sp.Stop()
				if err != nil {
					return err
				}
			}

			if asJSON {
				return printJSON(c.Root().Writer, generateResult{
					Round:    view.Round,
					Ideas:    view.Results,
					Analyses: analyses,
				})
			}

			printIdeas(c.Root().Writer, view.Results, acct.favorites.Contains, analyses)
			return nil
		},
	}
}

type generateResult struct {
	Round    string                             `json:"round"`
	Ideas    []*model.IdentityIdea              `json:"ideas"`
	Analyses map[string]*model.IdentityAnalysis `json:"analyses,omitempty"`
}

// analyzeAll checks every card concurrently; cards are independent.
func analyzeAll(ctx context.Context, sg *suggest.Session, ideas []*model.IdentityIdea) (map[string]*model.IdentityAnalysis, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		results  = make(map[string]*model.IdentityAnalysis, len(ideas))
	)

	for _, idea := range ideas {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			analysis, err := sg.Analyze(ctx, handle)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[handle] = analysis
		}(idea.Handle)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, goerr.Wrap(firstErr, "failed to check availability")
	}
	return results, nil
}
