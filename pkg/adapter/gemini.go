package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Gemini is the subset of the genai client the identity backend needs.
type Gemini interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
	imageModel      string
}

type GeminiOption func(*geminiConfig)

type geminiConfig struct {
	apiKey          string
	projectID       string
	location        string
	generativeModel string
	imageModel      string
}

// WithAPIKey selects the Gemini API backend instead of Vertex AI.
func WithAPIKey(apiKey string) GeminiOption {
	return func(c *geminiConfig) {
		c.apiKey = apiKey
	}
}

// WithVertexAI selects the Vertex AI backend.
func WithVertexAI(projectID, location string) GeminiOption {
	return func(c *geminiConfig) {
		c.projectID = projectID
		c.location = location
	}
}

func WithGenerativeModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		if model != "" {
			c.generativeModel = model
		}
	}
}

func WithImageModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		if model != "" {
			c.imageModel = model
		}
	}
}

const (
	DefaultGenerativeModel = "gemini-2.5-flash"
	DefaultImageModel      = "imagen-4.0-generate-001"
)

// NewGemini creates a genai client. An API key takes precedence over a
// Vertex AI project.
func NewGemini(ctx context.Context, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := &geminiConfig{
		generativeModel: DefaultGenerativeModel,
		imageModel:      DefaultImageModel,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientConfig := &genai.ClientConfig{}
	switch {
	case cfg.apiKey != "":
		clientConfig.APIKey = cfg.apiKey
		clientConfig.Backend = genai.BackendGeminiAPI
	case cfg.projectID != "":
		clientConfig.Project = cfg.projectID
		clientConfig.Location = cfg.location
		clientConfig.Backend = genai.BackendVertexAI
	default:
		return nil, goerr.New("either gemini API key or Vertex AI project is required")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{
		client:          client,
		generativeModel: cfg.generativeModel,
		imageModel:      cfg.imageModel,
	}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.V("model", g.generativeModel))
	}
	return resp, nil
}

func (g *GeminiClient) GenerateImages(ctx context.Context, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate images", goerr.V("model", g.imageModel))
	}
	return resp, nil
}
