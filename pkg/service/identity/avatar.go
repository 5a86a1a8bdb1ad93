package identity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/utils/logging"
	"google.golang.org/genai"
)

// GenerateAvatar renders a website preview image for handle. A response
// without image bytes, including one filtered by the safety filter, yields
// (nil, nil).
func (s *Service) GenerateAvatar(ctx context.Context, handle, vibe, category string) (*model.Avatar, error) {
	if category == "" {
		category = string(model.CategoryOther)
	}

	prompt, err := render(s.prompts.avatarTmpl, map[string]any{
		"Handle":   handle,
		"Vibe":     vibe,
		"Category": category,
		"Preset":   s.prompts.Preset(category),
	})
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		AspectRatio:      s.prompts.Image.AspectRatio,
		OutputMIMEType:   s.prompts.Image.MIMEType,
		IncludeRAIReason: true,
	}

	resp, err := s.gemini.GenerateImages(ctx, prompt, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate avatar", goerr.V("handle", handle))
	}

	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
		logging.From(ctx).Info("no avatar image returned", "handle", handle)
		return nil, nil
	}

	generated := resp.GeneratedImages[0]
	if generated.RAIFilteredReason != "" {
		logging.From(ctx).Info("avatar image was filtered", "handle", handle, "reason", generated.RAIFilteredReason)
		return nil, nil
	}
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		logging.From(ctx).Info("no avatar image returned", "handle", handle)
		return nil, nil
	}

	mimeType := generated.Image.MIMEType
	if mimeType == "" {
		mimeType = s.prompts.Image.MIMEType
	}

	return &model.Avatar{
		Handle:   handle,
		MIMEType: mimeType,
		Data:     generated.Image.ImageBytes,
	}, nil
}
