package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/api"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/database"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/metrics"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/middleware"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/tools"
)

const serverName = "alchemorsel-recipes"

// Version is reported to MCP clients.
var Version = "dev"

// Deps are the connections a Server is built on. Redis, Images and Registry may be nil.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Images   service.ImageSigner
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	logger *zap.Logger
}

// New wires the services, handlers and routes.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.ErrorHandler(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "Mcp-Session-Id")
	corsConfig.ExposeHeaders = []string{"Mcp-Session-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	router.Use(cors.New(corsConfig))

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	queryService := service.NewRecipeQueryService(deps.DB, deps.Images, metrics.NewRecorder(reg), logger)
	recipeTool := tools.NewRecipeTool(queryService, logger)

	var limit []gin.HandlerFunc
	if deps.Redis != nil && cfg.QueryRateLimit > 0 {
		limiter := middleware.NewRecipeQueryRateLimiter(deps.Redis, cfg.QueryRateLimit, cfg.QueryRateWindow, logger)
		limit = append(limit, limiter.RateLimitMiddleware())
	}

	s := &Server{cfg: cfg, router: router, db: deps.DB, logger: logger}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	recipeMW := append([]gin.HandlerFunc{middleware.AuthMiddleware(authService)}, limit...)
	api.NewRecipeHandler(recipeTool).RegisterRoutes(v1, recipeMW...)

	mcpSrv := mcpserver.NewMCPServer(serverName, Version, mcpserver.WithToolCapabilities(false))
	recipeTool.Register(mcpSrv)
	mcpHandler := gin.WrapH(mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
		mcpserver.WithHTTPContextFunc(tools.CallerContextFunc(authService)),
	))
	mcpMW := append([]gin.HandlerFunc{middleware.OptionalAuthMiddleware(authService)}, limit...)
	router.Any("/mcp", append(mcpMW, mcpHandler)...)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
