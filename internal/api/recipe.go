package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/tools"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/types"
)

type RecipeHandler struct {
	tool *tools.RecipeTool
}

func NewRecipeHandler(tool *tools.RecipeTool) *RecipeHandler {
	return &RecipeHandler{tool: tool}
}

// RegisterRoutes mounts the recipe routes; the caller supplies auth and rate limiting.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	recipes := router.Group("/recipes", mw...)
	{
		recipes.GET("/query", h.QueryRecipes)
	}
}

// QueryRecipes runs the recipe tool for the authenticated user. The response
// is always 200 with the tool result; failures are reported in its status.
func (h *RecipeHandler) QueryRecipes(c *gin.Context) {
	var req types.RecipeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.tool.Run(c.Request.Context(), service.QueryParams{
		FavoritesOnly: req.FavoritesOnly,
		SearchQuery:   req.Search,
	})
	c.JSON(http.StatusOK, result)
}
