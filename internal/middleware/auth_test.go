package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/identity"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/types"
)

type stubValidator struct {
	token  string
	userID uuid.UUID
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errors.New("bad token")
	}
	return &types.TokenClaims{UserID: v.userID, Email: "cook@example.com"}, nil
}

func setupAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		id, err := identity.CallerFromContext(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"caller": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"caller": id.String()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := setupAuthRouter(AuthMiddleware(stubValidator{token: "good", userID: userID}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := setupAuthRouter(OptionalAuthMiddleware(stubValidator{token: "good", userID: userID}))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"caller":""}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("Bearer")
	assert.False(t, ok)
	_, ok = BearerToken("Token abc")
	assert.False(t, ok)
}
