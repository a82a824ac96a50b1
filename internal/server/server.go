// Package server exposes the query engine over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fundfaq/internal/domain"
)

// QueryEngine is the only operation the HTTP layer is allowed to call.
type QueryEngine interface {
	Query(ctx context.Context, question string) domain.Answer
}

// Health describes what the health endpoint reports.
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Documents int    `json:"documents"`
	Embedder  string `json:"embedder"`
	Mode      string `json:"mode"`
}

type queryRequest struct {
	Question *string `json:"question"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Server wires the engine into an echo router.
type Server struct {
	echo   *echo.Echo
	engine QueryEngine
	health Health
}

// New constructs the HTTP server and registers its routes.
func New(engine QueryEngine, health Health) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, engine: engine, health: health}
	e.POST("/api/query", s.handleQuery)
	e.GET("/api/health", s.handleHealth)
	return s
}

// Start serves HTTP on addr until the listener fails.
func (s *Server) Start(addr string) error {
	slog.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) handleQuery(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil || req.Question == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing question in request"})
	}
	question := strings.TrimSpace(*req.Question)
	if question == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Question cannot be empty"})
	}
	return c.JSON(http.StatusOK, s.engine.Query(c.Request().Context(), question))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.health)
}
