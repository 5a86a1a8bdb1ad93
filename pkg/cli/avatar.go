package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/urfave/cli/v3"
)

func avatarCommand(cfg *config) *cli.Command {
	var (
		handle   string
		vibe     string
		category string
		output   string
		bucket   string
	)

	return &cli.Command{
		Name:  "avatar",
		Usage: "Render a website preview image for a handle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "handle",
				Usage:       "Handle to render",
				Destination: &handle,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "vibe",
				Usage:       "Brand personality, e.g. \"Warm, Handmade\"",
				Destination: &vibe,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "Commerce, Gaming, Tech, Creative, Personal or Other",
				Value:       string(model.CategoryOther),
				Destination: &category,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "File to write the image to; defaults to <handle>.jpg",
				Destination: &output,
				TakesFile:   true,
			},
			&cli.StringFlag{
				Name:        "bucket",
				Usage:       "Upload the image to this Cloud Storage bucket instead of a file",
				Sources:     cli.EnvVars("NAMER_AVATAR_BUCKET"),
				Destination: &bucket,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			backend, err := cfg.newBackend(ctx)
			if err != nil {
				return err
			}

			sp := newSpinner(c.Root().ErrWriter, "Rendering preview...")
			sp.Start()
			avatar, err := backend.GenerateAvatar(ctx, handle, vibe, category)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to generate preview")
			}
			if avatar == nil {
				return goerr.New("no preview could be generated for this handle", goerr.V("handle", handle))
			}

			if bucket != "" {
				url, err := uploadAvatar(ctx, cfg, bucket, avatar)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.Root().Writer, url)
				return nil
			}

			if output == "" {
				output = fileSafe(handle) + avatarExtension(avatar.MIMEType)
			}
			if err := os.WriteFile(output, avatar.Data, 0o644); err != nil {
				return goerr.Wrap(err, "failed to write preview", goerr.V("path", output))
			}
			fmt.Fprintf(c.Root().Writer, "Preview written to %s\n", output)
			return nil
		},
	}
}

func avatarKey(avatar *model.Avatar) string {
	return "avatars/" + fileSafe(avatar.Handle) + avatarExtension(avatar.MIMEType)
}

func uploadAvatar(ctx context.Context, cfg *config, bucket string, avatar *model.Avatar) (string, error) {
	storage, err := cfg.newStorage(ctx, bucket)
	if err != nil {
		return "", err
	}

	key := avatarKey(avatar)
	w, err := storage.Put(ctx, key, avatar.MIMEType)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open object", goerr.V("key", key))
	}
	if _, err := w.Write(avatar.Data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload preview", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to upload preview", goerr.V("key", key))
	}
	return storage.URL(key), nil
}
