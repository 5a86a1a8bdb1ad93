package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/urfave/cli/v3"
)

func savedCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "Manage saved ideas of the current user",
		Commands: []*cli.Command{
			savedListCommand(cfg),
			savedToggleCommand(cfg),
			savedNamespacesCommand(cfg),
		},
	}
}

func savedListCommand(cfg *config) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List saved ideas",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			ideas := acct.favorites.List()
			if asJSON {
				return printJSON(c.Root().Writer, ideas)
			}

			fmt.Fprintf(c.Root().Writer, "Saved ideas of %s (%d)\n", acct.favorites.Namespace(), len(ideas))
			printIdeas(c.Root().Writer, ideas, nil, nil)
			return nil
		},
	}
}

func savedToggleCommand(cfg *config) *cli.Command {
	var idea struct {
		handle      string
		style       string
		vibe        string
		category    string
		explanation string
		score       int64
	}

	return &cli.Command{
		Name:  "toggle",
		Usage: "Save an idea, or remove it when it is already saved",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "handle",
				Usage:       "Handle of the idea",
				Destination: &idea.handle,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "style",
				Usage:       "Brand style",
				Destination: &idea.style,
			},
			&cli.StringFlag{
				Name:        "vibe",
				Usage:       "Brand personality",
				Destination: &idea.vibe,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "Commerce, Gaming, Tech, Creative, Personal or Other",
				Value:       string(model.CategoryOther),
				Destination: &idea.category,
			},
			&cli.StringFlag{
				Name:        "explanation",
				Usage:       "Why the name works",
				Destination: &idea.explanation,
			},
			&cli.IntFlag{
				Name:        "score",
				Usage:       "Uniqueness score from 1 to 10",
				Value:       5,
				Destination: &idea.score,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			target := findIdea(acct.favorites.List(), idea.handle)
			if target == nil {
				target = &model.IdentityIdea{
					Handle:            idea.handle,
					Style:             idea.style,
					Vibe:              idea.vibe,
					Category:          idea.category,
					Explanation:       idea.explanation,
					AvailabilityScore: int(idea.score),
				}
			}

			saved, err := acct.favorites.Toggle(ctx, target)
			if err != nil {
				return goerr.Wrap(err, "failed to update saved ideas")
			}

			if saved {
				fmt.Fprintf(c.Root().Writer, "Saved %s\n", target.Handle)
			} else {
				fmt.Fprintf(c.Root().Writer, "Removed %s\n", target.Handle)
			}
			return nil
		},
	}
}

func savedNamespacesCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "namespaces",
		Usage: "List every namespace holding saved ideas",
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			namespaces, err := acct.repo.ListNamespaces(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list namespaces")
			}
			for _, ns := range namespaces {
				fmt.Fprintln(c.Root().Writer, ns)
			}
			return nil
		},
	}
}

func findIdea(ideas []*model.IdentityIdea, handle string) *model.IdentityIdea {
	for _, idea := range ideas {
		if idea.Handle == handle {
			return idea
		}
	}
	return nil
}
