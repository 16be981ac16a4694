// ABOUTME: HTTP API for the course assistant built on gin
// ABOUTME: Serves queries, catalog stats, and session clearing with graceful shutdown
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harper/coursemate/internal/core"
	"github.com/harper/coursemate/internal/models"
)

const shutdownTimeout = 10 * time.Second

// Service is the pipeline behind the API
type Service interface {
	Query(ctx context.Context, text, sessionID string) (*core.QueryResult, error)
	CourseAnalytics(ctx context.Context) (models.CourseAnalytics, error)
	ClearSession(sessionID string)
}

// QueryRequest is the body of POST /api/query
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// ClearSessionRequest is the body of DELETE /api/session/clear
type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

// ClearSessionResponse acknowledges a cleared session
type ClearSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Server wires the gin router to the pipeline
type Server struct {
	svc    Service
	router *gin.Engine
}

// New builds the router. Pass gin.ReleaseMode to silence gin's debug output.
func New(svc Service, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors())

	s := &Server{svc: svc, router: r}

	r.GET("/healthz", s.health)
	api := r.Group("/api")
	{
		api.POST("/query", s.query)
		api.GET("/courses", s.courses)
		api.DELETE("/sessions/:id", s.deleteSession)
		api.DELETE("/session/clear", s.clearSession)
	}
	return s
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query is required"})
		return
	}

	res, err := s.svc.Query(c.Request.Context(), req.Query, req.SessionID)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if res.Sources == nil {
		res.Sources = []models.SourceCitation{}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) courses(c *gin.Context) {
	analytics, err := s.svc.CourseAnalytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (s *Server) deleteSession(c *gin.Context) {
	s.svc.ClearSession(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) clearSession(c *gin.Context) {
	var req ClearSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "session_id is required"})
		return
	}
	s.svc.ClearSession(req.SessionID)
	c.JSON(http.StatusOK, ClearSessionResponse{
		Success: true,
		Message: fmt.Sprintf("Session %s cleared successfully", req.SessionID),
	})
}
