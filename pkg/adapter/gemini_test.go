package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/adapter"
	"google.golang.org/genai"
)

func newTestGemini(t *testing.T) *adapter.GeminiClient {
	t.Helper()
	ctx := context.Background()

	if apiKey := os.Getenv("TEST_GEMINI_API_KEY"); apiKey != "" {
		client, err := adapter.NewGemini(ctx, adapter.WithAPIKey(apiKey))
		gt.NoError(t, err)
		return client
	}

	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_API_KEY or TEST_GEMINI_PROJECT is not set")
	}
	client, err := adapter.NewGemini(ctx, adapter.WithVertexAI(projectID, "us-central1"))
	gt.NoError(t, err)
	return client
}

func TestNewGeminiRequiresBackend(t *testing.T) {
	_, err := adapter.NewGemini(context.Background())
	gt.Error(t, err)
}

func TestGenerateContent(t *testing.T) {
	client := newTestGemini(t)
	ctx := context.Background()

	contents := []*genai.Content{
		genai.NewContentFromText("Suggest one username for a cozy knitting streamer. Reply with the name only.", genai.RoleUser),
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	gt.NoError(t, err)
	gt.NotEqual(t, resp.Text(), "")
	t.Log("response:", resp.Text())
}

func TestGenerateImages(t *testing.T) {
	if os.Getenv("TEST_GEMINI_IMAGES") == "" {
		t.Skip("TEST_GEMINI_IMAGES is not set")
	}
	client := newTestGemini(t)
	ctx := context.Background()

	resp, err := client.GenerateImages(ctx, "A minimalist website hero section for a knitting shop", &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
	})
	gt.NoError(t, err)
	gt.A(t, resp.GeneratedImages).Longer(0)
}
