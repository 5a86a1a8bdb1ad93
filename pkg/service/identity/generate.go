package identity

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/utils/logging"
	"google.golang.org/genai"
)

// GenerateIdentities asks the model for one batch of ideas. Every failure
// wraps model.ErrGenerationFailed and carries a message fit for display.
func (s *Service) GenerateIdentities(ctx context.Context, prompt string) ([]*model.IdentityIdea, error) {
	description := strings.TrimSpace(prompt)
	if description == "" {
		return nil, goerr.Wrap(model.ErrEmptyPrompt, "can not generate identities")
	}

	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = string(c)
	}

	text, err := render(s.prompts.generateTmpl, map[string]any{
		"Description": description,
		"Count":       s.batchSize,
		"Categories":  categories,
	})
	if err != nil {
		return nil, generationFailed(err, "failed to build prompt")
	}

	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   s.schemas.ideasGenai,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	logging.From(ctx).Debug("generating identities", "prompt", description, "count", s.batchSize)

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return nil, generationFailed(err, "failed to generate identities")
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, generationFailed(nil, "no response from AI")
	}

	ideas, err := s.schemas.decodeIdeas(raw)
	if err != nil {
		return nil, generationFailed(err, "AI response was unusable", goerr.V("response", raw))
	}
	if len(ideas) == 0 {
		return nil, generationFailed(nil, "AI returned no ideas")
	}

	if len(ideas) != s.batchSize {
		logging.From(ctx).Debug("batch size differs from request", "requested", s.batchSize, "got", len(ideas))
	}
	return ideas, nil
}

// generationFailed wraps model.ErrGenerationFailed. The cause, if any, is
// kept as a value and in the message.
func generationFailed(cause error, msg string, opts ...goerr.Option) error {
	if cause != nil {
		opts = append(opts, goerr.V("cause", cause.Error()))
		msg = msg + ": " + cause.Error()
	}
	return goerr.Wrap(model.ErrGenerationFailed, msg, opts...)
}
