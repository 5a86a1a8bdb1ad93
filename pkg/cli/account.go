package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
)

func loginCommand(cfg *config) *cli.Command {
	var (
		email string
		name  string
	)

	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with an email address; no password is asked",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email address",
				Destination: &email,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "Display name; defaults to the local part of the email",
				Destination: &name,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			user, err := acct.session.SignIn(ctx, email, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Signed in as %s <%s> (%d saved)\n", user.Name, user.Email, acct.favorites.Count())
			return nil
		},
	}
}

func logoutCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and return to the guest favorites",
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			acct.session.SignOut(ctx)
			fmt.Fprintln(c.Root().Writer, "Signed out")
			return nil
		},
	}
}

func whoamiCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in user",
		Action: func(ctx context.Context, c *cli.Command) error {
			acct, err := cfg.openAccount(ctx)
			if err != nil {
				return err
			}
			defer acct.Close()

			printUser(c.Root().Writer, acct)
			return nil
		},
	}
}

func printUser(w io.Writer, acct *account) {
	user := acct.session.Current()
	if user == nil {
		fmt.Fprintf(w, "Not signed in (%d saved as guest)\n", acct.favorites.Count())
		return
	}
	fmt.Fprintf(w, "%s <%s> (%d saved)\n", user.Name, user.Email, acct.favorites.Count())
}
