// Package server exposes the homework helper pages as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/newsletter"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
)

const (
	maxRuns         = 64
	shutdownTimeout = 5 * time.Second
	maxUploadBytes  = 16 << 20
)

// Deps are the services behind the API. Nil services make their routes
// answer 503.
type Deps struct {
	Learning *learning.Service
	History  store.HistoryRepo
	Library  *passage.Library
	Loader   *passage.Loader
	Practice *practice.Service
	// Hints serves term lookups. It needs no LLM, so it is set even when
	// Practice is nil.
	Hints    *practice.Service
	Concepts store.ConceptRepo
	Exporter *export.Exporter
	Ingestor *newsletter.Ingestor
	Topics   store.TopicRepo
	Resolver *resolver.Resolver
	Subject  string
	Log      *logger.Logger
}

// Server holds the router and the practice sets in progress.
type Server struct {
	deps   Deps
	log    *logger.Logger
	router *gin.Engine

	mu    sync.Mutex
	runs  map[string]*practiceRun
	order []string
}

// practiceRun is a set in progress. Checks on one run are serialized
// since they update the set's items in place.
type practiceRun struct {
	mu  sync.Mutex
	set *practice.Set
}

// New builds the server and its routes.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{deps: deps, log: log.Named("http"), runs: map[string]*practiceRun{}}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = maxUploadBytes

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	{
		api.POST("/learn", s.learn)
		api.POST("/words", s.explainWord)

		api.GET("/sessions", s.listSessions)
		api.GET("/sessions/:id", s.getSession)
		api.GET("/sessions/:id/passages/:pid/export", s.exportPassage)

		api.GET("/passages", s.listPassages)
		api.POST("/passages", s.addPassage)
		api.GET("/passages/random", s.randomPassage)

		api.POST("/practice", s.startPractice)
		api.POST("/practice/check", s.checkPractice)
		api.GET("/hints/:term", s.getHint)

		api.GET("/concepts", s.listConcepts)
		api.POST("/concepts", s.addConcept)
		api.DELETE("/concepts/:id", s.deleteConcept)
		api.GET("/concepts/export", s.exportConcepts)

		api.POST("/newsletter", s.ingestNewsletter)
		api.GET("/topics/diagnose", s.diagnoseTopics)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) keepRun(set *practice.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[set.RunID] = &practiceRun{set: set}
	s.order = append(s.order, set.RunID)
	for len(s.order) > maxRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Server) run(id string) (*practiceRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	return r, ok
}
