package mcp

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/m-mizutani/namer/pkg/utils/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes the suggestion session and the favorites store as MCP
// tools.
type Server struct {
	suggest   *suggest.Session
	favorites *favorites.Store
	server    *mcp.Server
}

const (
	serverName    = "namer"
	serverVersion = "0.1.0"
)

func NewServer(sg *suggest.Session, favs *favorites.Store) *Server {
	s := &Server{
		suggest:   sg,
		favorites: favs,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_identities",
		Description: "Generate brand name and domain ideas for a description of a project",
	}, s.generateIdentities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_identity_presence",
		Description: "Check whether a generated handle is already used on the web or social media",
	}, s.checkIdentityPresence)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_avatar",
		Description: "Render a website preview image for a handle, returned as a data URI",
	}, s.generateAvatar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_favorites",
		Description: "List the saved ideas of the current user",
	}, s.listFavorites)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_favorite",
		Description: "Save an idea, or remove it when it is already saved",
	}, s.toggleFavorite)

	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Run serves over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	logging.From(ctx).Info("starting MCP server", "name", serverName)
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server stopped")
	}
	return nil
}

type generateInput struct {
	Description string `json:"description" jsonschema:"What the name is for, e.g. a handmade knitting shop"`
}

type generateOutput struct {
	Ideas []*model.IdentityIdea `json:"ideas"`
}

func (s *Server) generateIdentities(ctx context.Context, _ *mcp.CallToolRequest, in generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if err := s.suggest.Submit(ctx, in.Description); err != nil {
		return nil, generateOutput{}, err
	}
	return nil, generateOutput{Ideas: s.suggest.View().Results}, nil
}

type handleInput struct {
	Handle string `json:"handle" jsonschema:"The handle as generated, e.g. KnitCraft.io"`
}

func (s *Server) checkIdentityPresence(ctx context.Context, _ *mcp.CallToolRequest, in handleInput) (*mcp.CallToolResult, *model.IdentityAnalysis, error) {
	analysis, err := s.suggest.Analyze(ctx, in.Handle)
	if err != nil {
		return nil, nil, err
	}
	return nil, analysis, nil
}

type avatarInput struct {
	Handle   string `json:"handle" jsonschema:"The handle as generated"`
	Vibe     string `json:"vibe,omitempty" jsonschema:"Brand personality; taken from the generated idea when omitted"`
	Category string `json:"category,omitempty" jsonschema:"Commerce, Gaming, Tech, Creative, Personal or Other"`
}

type avatarOutput struct {
	Handle    string `json:"handle"`
	Generated bool   `json:"generated"`
	DataURI   string `json:"dataUri,omitempty"`
}

func (s *Server) generateAvatar(ctx context.Context, _ *mcp.CallToolRequest, in avatarInput) (*mcp.CallToolResult, avatarOutput, error) {
	idea := &model.IdentityIdea{Handle: in.Handle, Vibe: in.Vibe, Category: in.Category}
	if in.Vibe == "" && in.Category == "" {
		if found, err := s.suggest.Idea(in.Handle); err == nil {
			idea = found
		}
	}

	avatar, err := s.suggest.Avatar(ctx, idea)
	if err != nil {
		return nil, avatarOutput{}, err
	}

	out := avatarOutput{Handle: in.Handle}
	if avatar != nil {
		out.Generated = true
		out.DataURI = avatar.DataURI()
	}
	return nil, out, nil
}

type listFavoritesOutput struct {
	Namespace string                `json:"namespace"`
	Ideas     []*model.IdentityIdea `json:"ideas"`
}

func (s *Server) listFavorites(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, listFavoritesOutput, error) {
	return nil, listFavoritesOutput{
		Namespace: s.favorites.Namespace().String(),
		Ideas:     s.favorites.List(),
	}, nil
}

type toggleInput struct {
	Handle            string `json:"handle" jsonschema:"The handle as generated"`
	Style             string `json:"style,omitempty" jsonschema:"The brand style"`
	Vibe              string `json:"vibe,omitempty" jsonschema:"The brand personality"`
	Category          string `json:"category,omitempty" jsonschema:"Commerce, Gaming, Tech, Creative, Personal or Other"`
	Explanation       string `json:"explanation,omitempty" jsonschema:"Why the name works"`
	AvailabilityScore int    `json:"availabilityScore,omitempty" jsonschema:"Uniqueness score from 1 to 10"`
}

type toggleOutput struct {
	Handle string `json:"handle"`
	Saved  bool   `json:"saved"`
}

// toggleFavorite resolves a bare handle against the current results, then
// the saved ideas, before falling back to the fields given.
func (s *Server) toggleFavorite(ctx context.Context, _ *mcp.CallToolRequest, in toggleInput) (*mcp.CallToolResult, toggleOutput, error) {
	idea, err := s.suggest.Idea(in.Handle)
	if err != nil {
		idea = s.savedIdea(in.Handle)
	}
	if idea == nil {
		idea = &model.IdentityIdea{
			Handle:            in.Handle,
			Style:             in.Style,
			Vibe:              in.Vibe,
			Category:          in.Category,
			Explanation:       in.Explanation,
			AvailabilityScore: in.AvailabilityScore,
		}
	}

	saved, err := s.favorites.Toggle(ctx, idea)
	if err != nil {
		return nil, toggleOutput{}, err
	}
	return nil, toggleOutput{Handle: in.Handle, Saved: saved}, nil
}

func (s *Server) savedIdea(handle string) *model.IdentityIdea {
	for _, idea := range s.favorites.List() {
		if idea.Handle == handle {
			return idea
		}
	}
	return nil
}
