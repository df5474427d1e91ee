// Package server exposes the memo pipeline over HTTP and WebSocket.
package server

import (
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/memogen/internal/memo"
)

//go:embed web/index.html
var indexHTML []byte

// DefaultMaxUploadBytes caps the multipart body of POST /api/sessions.
const DefaultMaxUploadBytes = 32 << 20

type Server struct {
	orch  *memo.Orchestrator
	store *sessionStore
	// MaxUploadBytes bounds uploads. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Option adjusts a Server built by New.
type Option func(*options)

type options struct {
	maxSessions int
	sessionTTL  time.Duration
}

// WithSessionLimits bounds how many sessions are kept and for how long.
// Zero values select DefaultMaxSessions and DefaultSessionTTL.
func WithSessionLimits(maxSessions int, ttl time.Duration) Option {
	return func(o *options) {
		o.maxSessions = maxSessions
		o.sessionTTL = ttl
	}
}

// New returns a server that runs orch for every session it creates.
func New(orch *memo.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator required")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{orch: orch, store: newStore(o.maxSessions, o.sessionTTL)}, nil
}

// Routes builds the gin engine.
func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.PUT("/sessions/:id/sections", s.editSection)
	api.GET("/sessions/:id/export", s.exportSession)

	r.GET("/ws/sessions/:id/generate", s.generateWebSocket)
	return r
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
