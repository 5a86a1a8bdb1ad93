package identity

import (
	"context"
	"strings"

	"github.com/m-mizutani/namer/pkg/adapter"
	"github.com/m-mizutani/namer/pkg/model"
	"google.golang.org/genai"
)

// Backend is the contract between the suggestion flow and the AI service.
type Backend interface {
	// GenerateIdentities returns a non-empty batch of ideas for prompt or an
	// error wrapping model.ErrGenerationFailed.
	GenerateIdentities(ctx context.Context, prompt string) ([]*model.IdentityIdea, error)

	// CheckIdentityPresence never fails. Backend or decoding failures yield
	// the default unknown analysis.
	CheckIdentityPresence(ctx context.Context, handle string) *model.IdentityAnalysis

	// GenerateAvatar returns (nil, nil) when the backend produced no image.
	GenerateAvatar(ctx context.Context, handle, vibe, category string) (*model.Avatar, error)
}

// Service implements Backend with Gemini.
type Service struct {
	gemini          adapter.Gemini
	prompts         *Prompts
	batchSize       int
	searchGrounding bool
	decoder         PresenceDecoder
	schemas         *schemas
}

var _ Backend = (*Service)(nil)

type Option func(*Service)

func WithPrompts(p *Prompts) Option {
	return func(s *Service) {
		if p != nil {
			s.prompts = p
		}
	}
}

// WithBatchSize sets how many ideas a round asks for.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSearchGrounding toggles the Google Search tool on presence checks.
func WithSearchGrounding(enabled bool) Option {
	return func(s *Service) {
		s.searchGrounding = enabled
	}
}

const DefaultBatchSize = 8

func New(gemini adapter.Gemini, opts ...Option) (*Service, error) {
	s := &Service{
		gemini:          gemini,
		prompts:         DefaultPrompts(),
		batchSize:       DefaultBatchSize,
		searchGrounding: true,
		decoder:         NewPresenceDecoder(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sch, err := buildSchemas(s.prompts.TLDs)
	if err != nil {
		return nil, err
	}
	s.schemas = sch

	return s, nil
}

// responseText joins the text parts of the first candidate, skipping thoughts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
