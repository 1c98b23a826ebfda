package tools

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/identity"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/middleware"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
)

// RecipeToolName is the MCP name of the recipe query tool.
const RecipeToolName = "get_user_recipes"

// RecipeToolInput is the MCP argument object of get_user_recipes.
type RecipeToolInput struct {
	FavoritesOnly bool   `json:"favorites_only"`
	SearchQuery   string `json:"search_query"`
}

// Definition describes get_user_recipes to MCP clients.
func (t *RecipeTool) Definition() mcp.Tool {
	return mcp.NewTool(RecipeToolName,
		mcp.WithDescription("List the signed-in user's saved recipes, newest first. "+
			"Optionally restrict to favorites and/or search titles, ingredients and instructions."),
		mcp.WithBoolean("favorites_only",
			mcp.Description("Only return recipes marked as favorite"),
		),
		mcp.WithString("search_query",
			mcp.Description("Case-insensitive text to look for in the title, ingredients or instructions"),
			mcp.MaxLength(service.MaxSearchQueryLength),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Register adds get_user_recipes to s.
func (t *RecipeTool) Register(s *server.MCPServer) {
	s.AddTool(t.Definition(), mcp.NewTypedToolHandler(t.handleCall))
}

func (t *RecipeTool) handleCall(ctx context.Context, _ mcp.CallToolRequest, in RecipeToolInput) (*mcp.CallToolResult, error) {
	result := t.Run(ctx, service.QueryParams{
		FavoritesOnly: in.FavoritesOnly,
		SearchQuery:   in.SearchQuery,
	})
	return mcp.NewToolResultStructured(result, result.Summary), nil
}

// CallerContextFunc resolves the bearer token of an MCP HTTP request into
// the caller identity. Requests without a valid token carry no caller.
func CallerContextFunc(validator middleware.TokenValidator) server.HTTPContextFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token, ok := middleware.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			return ctx
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			return ctx
		}
		return identity.WithCaller(ctx, claims.UserID)
	}
}
