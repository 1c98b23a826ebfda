package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func HandleCall(t *RecipeTool) func(context.Context, mcp.CallToolRequest, RecipeToolInput) (*mcp.CallToolResult, error) {
	return t.handleCall
}
