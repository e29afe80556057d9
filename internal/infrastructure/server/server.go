package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/blogmaster/core/docs"
	httpHandlers "github.com/blogmaster/core/internal/adapters/http"
	"github.com/blogmaster/core/internal/application/services"
	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/config"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	repo   ports.PostRepository
}

// statsProvider is implemented by repositories that can report pool statistics
type statsProvider interface {
	Stats() map[string]interface{}
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, repo ports.PostRepository, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: services.NewValidator()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.Debug
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	markdown := httpHandlers.NewMarkdown()
	renderer, err := httpHandlers.NewTemplateRenderer(markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	e.Renderer = renderer

	// Initialize services
	postService := services.NewPostService(repo, appLogger.WithComponent("post_service"))

	// Initialize handlers
	postHandler := httpHandlers.NewPostHandler(postService, appLogger)
	pageHandler := httpHandlers.NewPageHandler(postService, appLogger)
	feedHandler := httpHandlers.NewFeedHandler(postService, markdown, cfg.App, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		repo:   repo,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(postHandler, pageHandler, feedHandler)

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(postHandler *httpHandlers.PostHandler, pageHandler *httpHandlers.PageHandler, feedHandler *httpHandlers.FeedHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	postGroup := v1.Group("/posts")
	postGroup.GET("", postHandler.ListPosts)
	postGroup.POST("", postHandler.CreatePost)
	postGroup.GET("/:id", postHandler.GetPost)
	postGroup.PUT("/:id", postHandler.UpdatePost)
	postGroup.DELETE("/:id", postHandler.DeletePost)

	// HTML pages
	s.echo.GET("/", pageHandler.Index)
	s.echo.GET("/add", pageHandler.AddForm)
	s.echo.POST("/add", pageHandler.Add)
	s.echo.GET("/update/:id", pageHandler.UpdateForm)
	s.echo.POST("/update/:id", pageHandler.Update)
	s.echo.GET("/delete/:id", pageHandler.Delete)

	s.echo.GET("/feed", feedHandler.RSS)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.repo.HealthCheck(c.Request().Context()); err != nil {
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status": "error",
			"driver": s.config.Storage.Driver,
			"error":  err.Error(),
		}
	} else {
		storage := map[string]interface{}{
			"status": "ok",
			"driver": s.config.Storage.Driver,
		}
		if sp, ok := s.repo.(statsProvider); ok {
			storage["stats"] = sp.Stats()
		}
		checks["storage"] = storage
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.repo.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets the server be driven directly, as in tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address, "storage", s.config.Storage.Driver)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// already answered further down the middleware chain
		if c.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		reqLogger := logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = httpHandlers.MessageResponse{Message: m}
			} else {
				msg = he.Message
			}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if ve, ok := entities.AsValidationError(err); ok {
			code = http.StatusUnprocessableEntity
			msg = ports.ValidationErrorResponse{Message: ve.Error(), ID: ve.ID, Post: ve.Input, Fields: ve.Fields}
		} else if entities.IsNotFound(err) {
			code = http.StatusNotFound
			msg = httpHandlers.MessageResponse{Message: "Post not found"}
		} else if errors.Is(err, entities.ErrIDExhausted) {
			code = http.StatusConflict
			msg = httpHandlers.MessageResponse{Message: "No post id left to assign"}
		} else if pe, ok := entities.AsParseError(err); ok {
			reqLogger.Errorw("Post store is unreadable", "path", pe.Path, "error", pe.Err, "uri", c.Request().RequestURI)
			msg = httpHandlers.MessageResponse{Message: "Post store is unreadable"}
		} else {
			msg = httpHandlers.MessageResponse{Message: http.StatusText(code)}
		}

		if code >= http.StatusInternalServerError {
			reqLogger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
