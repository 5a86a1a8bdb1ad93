package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/adapter"
	"github.com/m-mizutani/namer/pkg/repository"
	"github.com/m-mizutani/namer/pkg/service/identity"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/session"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Logging
	logLevel  string
	logOutput string

	// Repository
	dbPath            string
	firestoreProject  string
	firestoreDatabase string

	// Gemini
	geminiAPIKey    string
	geminiProject   string
	geminiLocation  string
	geminiModel     string
	imagenModel     string
	promptConfig    string
	searchGrounding bool
	batchSize       int64
}

func loggingFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("NAMER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output: stderr, stdout or a file path",
			Value:       "stderr",
			Sources:     cli.EnvVars("NAMER_LOG_OUTPUT"),
			Destination: &cfg.logOutput,
		},
	}
}

// globalFlags returns the storage flags shared by every command
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db",
			Usage:       "Path of the local SQLite database",
			DefaultText: "~/.namer/namer.db",
			Sources:     cli.EnvVars("NAMER_DB"),
			Destination: &cfg.dbPath,
			TakesFile:   true,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID of Firestore; replaces the local database when set",
			Sources:     cli.EnvVars("NAMER_FIRESTORE_PROJECT_ID"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("NAMER_FIRESTORE_DATABASE_ID"),
			Destination: &cfg.firestoreDatabase,
		},
	}
}

// geminiFlags returns flags for the generative backend
func geminiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini on Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Model for text generation",
			Value:       adapter.DefaultGenerativeModel,
			Sources:     cli.EnvVars("NAMER_GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "imagen-model",
			Usage:       "Model for preview images",
			Value:       adapter.DefaultImageModel,
			Sources:     cli.EnvVars("NAMER_IMAGEN_MODEL"),
			Destination: &cfg.imagenModel,
		},
		&cli.StringFlag{
			Name:        "prompt-config",
			Usage:       "YAML file overriding the built-in prompts",
			Sources:     cli.EnvVars("NAMER_PROMPT_CONFIG"),
			Destination: &cfg.promptConfig,
			TakesFile:   true,
		},
		&cli.BoolFlag{
			Name:        "search-grounding",
			Usage:       "Ground availability checks with Google Search",
			Value:       true,
			Sources:     cli.EnvVars("NAMER_SEARCH_GROUNDING"),
			Destination: &cfg.searchGrounding,
		},
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Number of ideas requested per round",
			Value:       identity.DefaultBatchSize,
			Sources:     cli.EnvVars("NAMER_BATCH_SIZE"),
			Destination: &cfg.batchSize,
		},
	}
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	opts := []adapter.GeminiOption{
		adapter.WithGenerativeModel(cfg.geminiModel),
		adapter.WithImageModel(cfg.imagenModel),
	}
	switch {
	case cfg.geminiAPIKey != "":
		opts = append(opts, adapter.WithAPIKey(cfg.geminiAPIKey))
	case cfg.geminiProject != "":
		if cfg.geminiLocation == "" {
			return nil, goerr.New("gemini-location is required")
		}
		opts = append(opts, adapter.WithVertexAI(cfg.geminiProject, cfg.geminiLocation))
	default:
		return nil, goerr.New("gemini-api-key or gemini-project is required")
	}

	gemini, err := adapter.NewGemini(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini client")
	}
	return gemini, nil
}

// newBackend creates the identity backend on top of Gemini
func (cfg *config) newBackend(ctx context.Context) (*identity.Service, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	opts := []identity.Option{
		identity.WithSearchGrounding(cfg.searchGrounding),
		identity.WithBatchSize(int(cfg.batchSize)),
	}
	if cfg.promptConfig != "" {
		prompts, err := identity.LoadPrompts(cfg.promptConfig)
		if err != nil {
			return nil, err
		}
		opts = append(opts, identity.WithPrompts(prompts))
	}

	return identity.New(gemini, opts...)
}

type repositoryCloser interface {
	repository.Repository
	io.Closer
}

// newRepository opens Firestore when a project is configured and the local
// SQLite database otherwise.
func (cfg *config) newRepository(ctx context.Context) (repositoryCloser, error) {
	if cfg.firestoreProject != "" {
		if cfg.firestoreDatabase == "" {
			return nil, goerr.New("firestore-database is required")
		}
		repo, err := repository.New(ctx, cfg.firestoreProject, cfg.firestoreDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, nil
	}

	path, err := cfg.databasePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	repo, err := repository.NewSQLite(ctx, path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

func (cfg *config) databasePath() (string, error) {
	if cfg.dbPath != "" {
		return cfg.dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".namer", "namer.db"), nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// account is the persisted per-user state: the favorites store and the
// session bound to it.
type account struct {
	repo      repositoryCloser
	favorites *favorites.Store
	session   *session.Context
}

func (cfg *config) openAccount(ctx context.Context, opts ...favorites.Option) (*account, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	favs := favorites.New(repo, opts...)
	return &account{
		repo:      repo,
		favorites: favs,
		session:   session.New(ctx, repo, favs),
	}, nil
}

func (x *account) Close() error {
	return x.repo.Close()
}
