// Package tools exposes recipe queries to agents.
package tools

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/identity"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
)

// RecipeTool answers "what recipes do I have" for the caller in the context.
// It never fails: errors are logged and reported through the result status.
type RecipeTool struct {
	recipes service.IRecipeQueryService
	logger  *zap.Logger
}

func NewRecipeTool(recipes service.IRecipeQueryService, logger *zap.Logger) *RecipeTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeTool{recipes: recipes, logger: logger.Named("recipe_tool")}
}

// Run queries the caller's recipes.
func (t *RecipeTool) Run(ctx context.Context, params service.QueryParams) *service.QueryResult {
	callerID, err := identity.CallerFromContext(ctx)
	if err != nil {
		t.logger.Warn("recipe query without caller identity", zap.Error(err))
		return service.ErrorResult(service.ErrorKindUnauthenticated)
	}

	result, err := t.recipes.Query(ctx, callerID, params)
	if err != nil {
		kind := service.ErrorKindQueryFailed
		switch {
		case errors.Is(err, identity.ErrNoCaller):
			kind = service.ErrorKindUnauthenticated
		case errors.Is(err, service.ErrSearchQueryTooLong):
			kind = service.ErrorKindInvalidQuery
		}
		t.logger.Error("error fetching recipes",
			zap.String("user_id", callerID.String()),
			zap.Bool("favorites_only", params.FavoritesOnly),
			zap.String("search_query", params.SearchQuery),
			zap.Error(err))
		return service.ErrorResult(kind)
	}
	return result
}
