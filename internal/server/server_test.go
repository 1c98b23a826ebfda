package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/testhelpers"
)

const testSecret = "server-test-secret"

func setupServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLite(t)
	cfg := &config.Config{
		Env:             config.Test,
		DBDriver:        config.DriverSQLite,
		JWTSecret:       testSecret,
		CORSOrigins:     []string{"http://localhost:5173"},
		QueryRateLimit:  60,
		QueryRateWindow: time.Minute,
	}
	return New(cfg, Deps{DB: db, Registry: prometheus.NewRegistry()}), db
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecipeQueryEndToEnd(t *testing.T) {
	srv, db := setupServer(t)
	user := testhelpers.CreateTestUser(t, db, "cook@example.com", "password123")
	testhelpers.CreateTestRecipes(t, db, user.ID,
		testhelpers.RecipeFixture{Title: "Tomato Soup", Ingredients: []string{"tomato"}, Age: 2 * time.Hour},
		testhelpers.RecipeFixture{Title: "Chocolate Cake", Ingredients: []string{"cocoa"}, Favorite: true, Age: time.Hour},
	)
	token := login(t, srv.Handler(), "cook@example.com", "password123")

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/query", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("favorites", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/query?favorites_only=true", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		srv.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var result service.QueryResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, service.StatusOK, result.Status)
		assert.Equal(t, 1, result.TotalCount)
		require.Len(t, result.Recipes, 1)
		assert.Equal(t, "Chocolate Cake", result.Recipes[0].Title)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `recipe_queries_total{backend="filter",status="ok"} 1`)
	})
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, db := setupServer(t)
	testhelpers.CreateTestUser(t, db, "cook@example.com", "password123")

	body := strings.NewReader(`{"email":"cook@example.com","password":"wrong-password"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMCPToolCall(t *testing.T) {
	srv, db := setupServer(t)
	user := testhelpers.CreateTestUser(t, db, "cook@example.com", "password123")
	testhelpers.CreateTestRecipes(t, db, user.ID,
		testhelpers.RecipeFixture{Title: "Garlic Bread", Ingredients: []string{"garlic", "bread"}},
	)
	token := login(t, srv.Handler(), "cook@example.com", "password123")

	call := func(authorization string) map[string]any {
		t.Helper()
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_user_recipes","arguments":{"search_query":"GARLIC"}}}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		srv.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Result struct {
				StructuredContent map[string]any `json:"structuredContent"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
		return resp.Result.StructuredContent
	}

	t.Run("with token", func(t *testing.T) {
		out := call("Bearer " + token)
		assert.Equal(t, "ok", out["status"])
		assert.EqualValues(t, 1, out["totalCount"])
		assert.Equal(t, `Found 1 recipe matching "GARLIC".`, out["summary"])
	})

	t.Run("without token", func(t *testing.T) {
		out := call("")
		assert.Equal(t, "error", out["status"])
		assert.Equal(t, "unauthenticated", out["errorKind"])
		assert.Equal(t, service.UnavailableSummary, out["summary"])
	})
}
