package identity

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/utils/logging"
	"google.golang.org/genai"
)

// CheckIdentityPresence asks the model, optionally grounded on Google
// Search, whether the handle's bare name is in use. It never fails.
func (s *Service) CheckIdentityPresence(ctx context.Context, handle string) *model.IdentityAnalysis {
	logger := logging.From(ctx).With("handle", handle)

	name, _ := model.SplitHandle(handle)
	if name == "" {
		name = handle
	}

	text, err := render(s.prompts.presenceTmpl, map[string]any{
		"Handle":     handle,
		"Name":       name,
		"Query":      s.searchQuery(handle, name),
		"TLDs":       s.prompts.TLDs,
		"Platforms":  s.prompts.Platforms,
		"InlineJSON": s.searchGrounding,
	})
	if err != nil {
		logger.Warn("failed to build presence prompt", logging.ErrAttr(err))
		return model.NewUnknownAnalysis(handle, "")
	}

	config := &genai.GenerateContentConfig{}
	if s.searchGrounding {
		// JSON mode can not be combined with the search tool; the prompt
		// asks for JSON instead.
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = s.schemas.presenceGenai
	}
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logger.Warn("availability check failed", logging.ErrAttr(err))
		return model.NewUnknownAnalysis(handle, "")
	}

	raw := responseText(resp)
	analysis, err := s.decoder.Decode(handle, raw)
	if err != nil {
		logger.Warn("failed to decode availability check",
			logging.ErrAttr(goerr.Wrap(err, "decode failed", goerr.V("response", raw))))
		return model.NewUnknownAnalysis(handle, "")
	}

	return analysis
}

// searchQuery is the site: query covering the handle itself, the bare name
// under every checked suffix and a profile path on every platform.
func (s *Service) searchQuery(handle, name string) string {
	terms := make([]string, 0, 1+len(s.prompts.TLDs)+len(s.prompts.Platforms))
	terms = append(terms, "site:"+handle)
	for _, tld := range s.prompts.TLDs {
		terms = append(terms, "site:"+name+tld)
	}
	for _, p := range s.prompts.Platforms {
		terms = append(terms, "site:"+p+"/"+name)
	}
	return strings.Join(terms, " OR ")
}
