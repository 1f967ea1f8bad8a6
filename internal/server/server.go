// Package server exposes the synthetic dispatcher over HTTP for the pilot
// UI, along with a websocket stream of applied transitions.
package server

import (
	"io"
	"log/slog"
	"net/http"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/internal/sim"
)

// Server bridges HTTP requests into the synthetic dispatcher
type Server struct {
	engine     *engine.Engine
	dispatcher *sim.Dispatcher
}

// NewServer creates an HTTP server over an engine and its dispatcher
func NewServer(eng *engine.Engine, d *sim.Dispatcher) *Server {
	return &Server{
		engine:     eng,
		dispatcher: d,
	}
}

// SetupRoutes configures and returns the HTTP router
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// All /api traffic funnels into the dispatcher; routing stays in the
	// sim route table rather than gin
	router.Any("/api/*path", s.handleDispatch)

	// WebSocket
	router.GET("/ws", s.handleWebSocket)

	return router
}

func (s *Server) handleDispatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	status, env := s.dispatcher.Dispatch(c.Request.Context(), &sim.Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Body:   body,
	})
	c.JSON(status, env)
}
