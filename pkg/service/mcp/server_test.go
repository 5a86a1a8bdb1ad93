package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
	"github.com/m-mizutani/namer/pkg/service/identity"
	"github.com/m-mizutani/namer/pkg/service/mcp"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type mockBackend struct {
	identity.Backend
}

func (m *mockBackend) GenerateIdentities(ctx context.Context, prompt string) ([]*model.IdentityIdea, error) {
	if prompt == "fail" {
		return nil, errors.New("no response from AI")
	}
	return []*model.IdentityIdea{
		{Handle: "KnitCraft.io", Style: "Cozy", Vibe: "Warm", Category: "Creative", Explanation: "Crafty", AvailabilityScore: 7},
	}, nil
}

func (m *mockBackend) CheckIdentityPresence(ctx context.Context, handle string) *model.IdentityAnalysis {
	return model.NewUnknownAnalysis(handle, "")
}

func (m *mockBackend) GenerateAvatar(ctx context.Context, handle, vibe, category string) (*model.Avatar, error) {
	return &model.Avatar{Handle: handle, MIMEType: "image/jpeg", Data: []byte("img")}, nil
}

func connect(t *testing.T) (*mcpsdk.ClientSession, *favorites.Store) {
	t.Helper()
	ctx := context.Background()

	favs := favorites.New(repository.NewMemory())
	srv := mcp.NewServer(suggest.New(&mockBackend{}), favs)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session, favs
}

func call(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	gt.NoError(t, err)
	return result
}

func structured[T any](t *testing.T, result *mcpsdk.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(result.StructuredContent)
	gt.NoError(t, err)
	var v T
	gt.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestTools(t *testing.T) {
	session, favs := connect(t)

	tools, err := session.ListTools(context.Background(), nil)
	gt.NoError(t, err)
	gt.A(t, tools.Tools).Length(5)

	result := call(t, session, "generate_identities", map[string]any{"description": "knitting shop"})
	gt.False(t, result.IsError)
	ideas := structured[struct {
		Ideas []*model.IdentityIdea `json:"ideas"`
	}](t, result)
	gt.A(t, ideas.Ideas).Length(1)
	gt.Equal(t, ideas.Ideas[0].Handle, "KnitCraft.io")

	result = call(t, session, "check_identity_presence", map[string]any{"handle": "KnitCraft.io"})
	gt.False(t, result.IsError)
	analysis := structured[model.IdentityAnalysis](t, result)
	gt.True(t, analysis.Degraded)

	result = call(t, session, "generate_avatar", map[string]any{"handle": "KnitCraft.io"})
	gt.False(t, result.IsError)
	avatar := structured[map[string]any](t, result)
	gt.Equal(t, avatar["generated"], any(true))

	result = call(t, session, "toggle_favorite", map[string]any{"handle": "KnitCraft.io"})
	gt.False(t, result.IsError)
	gt.True(t, favs.Contains("KnitCraft.io"))
	saved := favs.List()
	gt.Equal(t, saved[0].Explanation, "Crafty")

	result = call(t, session, "list_favorites", map[string]any{})
	gt.False(t, result.IsError)
	list := structured[struct {
		Namespace string                `json:"namespace"`
		Ideas     []*model.IdentityIdea `json:"ideas"`
	}](t, result)
	gt.Equal(t, list.Namespace, "guest")
	gt.A(t, list.Ideas).Length(1)

	result = call(t, session, "toggle_favorite", map[string]any{"handle": "KnitCraft.io"})
	gt.False(t, result.IsError)
	gt.False(t, favs.Contains("KnitCraft.io"))
}

func TestToolErrors(t *testing.T) {
	session, _ := connect(t)

	result := call(t, session, "generate_identities", map[string]any{"description": "fail"})
	gt.True(t, result.IsError)

	result = call(t, session, "toggle_favorite", map[string]any{"handle": "Unknown.io"})
	gt.True(t, result.IsError)
}
