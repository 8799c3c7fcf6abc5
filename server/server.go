// Package server exposes the task dispatcher over HTTP: POST /run processes
// a task, GET /.well-known/agent.json serves the agent card. The handler
// layer is a thin envelope around task.Manager and never returns a raw
// fault to callers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/postwright/postwright/logging"
	"github.com/postwright/postwright/task"
)

// Config holds the HTTP surface configuration.
type Config struct {
	Host          string
	Port          int
	EnableCORS    bool
	Debug         bool
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	AgentCardPath string
}

// DefaultConfig returns the standard server configuration.
func DefaultConfig() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          8003,
		EnableCORS:    true,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  10 * time.Minute, // image generation can take a while
		AgentCardPath: ".well-known/agent.json",
	}
}

// RunRequest is the body of POST /run.
type RunRequest struct {
	Message   string         `json:"message" binding:"required"`
	Context   map[string]any `json:"context"`
	SessionID string         `json:"session_id"`
}

// Server wires the gin engine around a task.Manager.
type Server struct {
	cfg        Config
	manager    *task.Manager
	logger     logging.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New constructs the server and registers all routes.
func New(cfg Config, manager *task.Manager, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		cfg:     cfg,
		manager: manager,
		logger:  logger,
		engine:  engine,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.POST("/run", s.handleRun)
	s.engine.GET("/.well-known/agent.json", s.handleAgentCard)
	s.engine.GET("/health", s.handleHealth)
}

// Handler exposes the underlying http.Handler (used by tests).
func (s *Server) Handler() http.Handler { return s.engine }

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("server.start", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server.shutdown")
	return s.httpServer.Shutdown(ctx)
}

// handleRun dispatches one task. The dispatcher itself already converts its
// failures into error results; this handler is the outer safety net that
// catches anything escaping it (including malformed requests) so the caller
// always receives a well-formed envelope.
func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"message":    fmt.Sprintf("Error processing task: %v", err),
			"session_id": nil,
			"status":     task.StatusError,
			"data": gin.H{
				"error_type":    "ValidationError",
				"error_message": err.Error(),
			},
		})
		return
	}
	if req.Context == nil {
		req.Context = map[string]any{}
	}

	result, err := s.dispatch(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("server.run.panic", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{
			"message":    fmt.Sprintf("Error processing task: %v", err),
			"session_id": req.SessionID,
			"status":     task.StatusError,
			"data": gin.H{
				"error_type":    "DispatchPanic",
				"error_message": err.Error(),
			},
		})
		return
	}

	// task.Result carries the wire shape, including the bare {} data object
	// on error results.
	c.JSON(http.StatusOK, result)
}

// dispatch isolates the manager call so a panic inside the dispatch stack is
// converted into an error instead of unwinding through the handler.
func (s *Server) dispatch(ctx context.Context, req RunRequest) (result task.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	result = s.manager.ProcessTask(ctx, req.Message, req.Context, req.SessionID)
	return result, nil
}

// handleAgentCard serves the static agent card document from disk.
func (s *Server) handleAgentCard(c *gin.Context) {
	data, err := os.ReadFile(s.cfg.AgentCardPath)
	if err != nil {
		s.logger.Error("server.agent_card.missing", "path", s.cfg.AgentCardPath, "error", err.Error())
		c.JSON(http.StatusNotFound, gin.H{"error": "agent card not found"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
