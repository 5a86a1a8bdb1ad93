package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/urfave/cli/v3"
)

func shellCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive session: describe a project, then check, save and share ideas",
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

			rlConfig := &readline.Config{
				Prompt:          "namer> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          c.Root().Writer,
				Stderr:          c.Root().ErrWriter,
			}
			if dbPath, err := cfg.databasePath(); err == nil {
				rlConfig.HistoryFile = filepath.Join(filepath.Dir(dbPath), "history")
			}

			rl, err := readline.NewEx(rlConfig)
			if err != nil {
				return goerr.Wrap(err, "failed to start line editor")
			}
			defer rl.Close()

			sh := &shell{
				w:       rl.Stdout(),
				errW:    rl.Stderr(),
				suggest: suggest.New(backend),
				account: acct,
			}

			fmt.Fprintln(sh.w, "Describe what you need a name for. Type :help for commands.")
			printUser(sh.w, acct)

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if quit := sh.exec(ctx, line); quit {
					return nil
				}
			}
		},
	}
}

type shell struct {
	w       io.Writer
	errW    io.Writer
	suggest *suggest.Session
	account *account
}

const shellHelp = `Type a description to generate ideas. Commands take an idea number or a handle:
  :check N       check availability
  :avatar N      render a preview image into the current directory
  :retry N       allow another preview attempt after none was produced
  :save N        save or remove an idea
  :links N       print search and share links
  :results       show the last results
  :saved         show saved ideas
  :reset         clear the results
  :login EMAIL [NAME]
  :logout
  :whoami
  :quit`

// exec runs one input line and reports whether the shell should exit.
func (x *shell) exec(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		x.submit(ctx, line)
		return false
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch name {
	case "q", "quit", "exit":
		return true
	case "h", "help":
		fmt.Fprintln(x.w, shellHelp)
	case "c", "check":
		err = x.check(ctx, arg)
	case "a", "avatar":
		err = x.avatar(ctx, arg)
	case "retry":
		err = x.retry(arg)
	case "s", "save":
		err = x.toggle(ctx, arg)
	case "l", "links":
		err = x.links(arg)
	case "r", "results":
		x.showResults()
	case "saved":
		x.suggest.ShowSaved()
		x.showSaved()
	case "reset":
		x.suggest.Reset()
		fmt.Fprintln(x.w, "Cleared.")
	case "login":
		email, userName, _ := strings.Cut(arg, " ")
		_, err = x.account.session.SignIn(ctx, email, userName)
		if err == nil {
			printUser(x.w, x.account)
		}
	case "logout":
		x.account.session.SignOut(ctx)
		printUser(x.w, x.account)
	case "whoami":
		printUser(x.w, x.account)
	default:
		err = goerr.New("unknown command, try :help", goerr.V("command", name))
	}

	if err != nil {
		fmt.Fprintf(x.errW, "error: %s\n", err)
	}
	return false
}

func (x *shell) submit(ctx context.Context, prompt string) {
	sp := newSpinner(x.errW, "Generating ideas...")
	sp.Start()
	err := x.suggest.Submit(ctx, prompt)
	sp.Stop()

	if err != nil {
		fmt.Fprintf(x.errW, "Generation failed: %s\n", err)
		return
	}
	x.showResults()
}

func (x *shell) showResults() {
	view := x.suggest.View()
	if view.State == suggest.StateError {
		fmt.Fprintf(x.w, "Last round failed: %s\n", view.Error)
		return
	}
	printIdeas(x.w, view.Results, x.account.favorites.Contains, x.analyses(view.Results))
}

func (x *shell) showSaved() {
	ideas := x.account.favorites.List()
	fmt.Fprintf(x.w, "Saved ideas of %s (%d)\n", x.account.favorites.Namespace(), len(ideas))
	printIdeas(x.w, ideas, nil, x.analyses(ideas))
}

// analyses collects the availability results already known for ideas.
func (x *shell) analyses(ideas []*model.IdentityIdea) map[string]*model.IdentityAnalysis {
	out := make(map[string]*model.IdentityAnalysis)
	for _, idea := range ideas {
		if card := x.suggest.Card(idea.Handle); card.Analysis != nil {
			out[idea.Handle] = card.Analysis
		}
	}
	return out
}

// resolve finds an idea by its number in the list on screen, or by handle
// in the results and then the saved ideas.
func (x *shell) resolve(arg string) (*model.IdentityIdea, error) {
	if arg == "" {
		return nil, goerr.New("idea number or handle is required")
	}

	view := x.suggest.View()
	listed := view.Results
	if view.State == suggest.StateSaved {
		listed = x.account.favorites.List()
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(listed) {
			return nil, goerr.New("no idea with that number", goerr.V("number", n))
		}
		return listed[n-1], nil
	}

	if idea, err := x.suggest.Idea(arg); err == nil {
		return idea, nil
	}
	if idea := findIdea(x.account.favorites.List(), arg); idea != nil {
		return idea, nil
	}
	return nil, goerr.Wrap(model.ErrUnknownHandle, "no such idea", goerr.V("handle", arg))
}

func (x *shell) check(ctx context.Context, arg string) error {
	handle := arg
	if idea, err := x.resolve(arg); err == nil {
		handle = idea.Handle
	} else if arg == "" {
		return err
	}

	sp := newSpinner(x.errW, "Checking "+handle+"...")
	sp.Start()
	analysis, err := x.suggest.Analyze(ctx, handle)
	sp.Stop()
	if err != nil {
		return err
	}
	printAnalysis(x.w, analysis)
	return nil
}

func (x *shell) avatar(ctx context.Context, arg string) error {
	idea, err := x.resolve(arg)
	if err != nil {
		return err
	}

	sp := newSpinner(x.errW, "Rendering preview...")
	sp.Start()
	avatar, err := x.suggest.Avatar(ctx, idea)
	sp.Stop()
	if err != nil {
		return err
	}
	if avatar == nil {
		fmt.Fprintf(x.w, "No preview available for %s. Use :retry to try again.\n", idea.Handle)
		return nil
	}

	path := fileSafe(idea.Handle) + avatarExtension(avatar.MIMEType)
	if err := os.WriteFile(path, avatar.Data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write preview", goerr.V("path", path))
	}
	fmt.Fprintf(x.w, "Preview written to %s\n", path)
	return nil
}

func (x *shell) retry(arg string) error {
	idea, err := x.resolve(arg)
	if err != nil {
		return err
	}
	if x.suggest.RetryAvatar(idea.Handle) {
		fmt.Fprintf(x.w, "Preview of %s can be requested again.\n", idea.Handle)
	} else {
		fmt.Fprintf(x.w, "Nothing to retry for %s.\n", idea.Handle)
	}
	return nil
}

func (x *shell) toggle(ctx context.Context, arg string) error {
	idea, err := x.resolve(arg)
	if err != nil {
		return err
	}

	saved, err := x.account.favorites.Toggle(ctx, idea)
	if errors.Is(err, model.ErrInvalidIdea) {
		return err
	}
	if saved {
		fmt.Fprintf(x.w, "Saved %s\n", idea.Handle)
	} else {
		fmt.Fprintf(x.w, "Removed %s\n", idea.Handle)
	}
	if err != nil {
		return goerr.Wrap(err, "change is kept for this session only")
	}
	return nil
}

func (x *shell) links(arg string) error {
	idea, err := x.resolve(arg)
	if err != nil {
		idea = &model.IdentityIdea{Handle: arg}
		if arg == "" {
			return err
		}
	}
	printLinks(x.w, idea)
	return nil
}
