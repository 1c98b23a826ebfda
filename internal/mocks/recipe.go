package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
)

// MockRecipeQueryService is a mock implementation of the recipe query service
type MockRecipeQueryService struct {
	mock.Mock
}

// Query mocks the Query method
func (m *MockRecipeQueryService) Query(ctx context.Context, callerID uuid.UUID, params service.QueryParams) (*service.QueryResult, error) {
	args := m.Called(ctx, callerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QueryResult), args.Error(1)
}
