package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/types"
)

// IRecipeQueryService defines the interface for read-only recipe queries
type IRecipeQueryService interface {
	Query(ctx context.Context, callerID uuid.UUID, params QueryParams) (*QueryResult, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GenerateToken(user *model.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}
