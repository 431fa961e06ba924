// Package server hosts a local blog directory over HTTP so the terminal
// viewer (or a browser) can read it from another machine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/markdown"
)

const shutdownTimeout = 10 * time.Second

// Server serves the blog index, post files and rendered posts.
type Server struct {
	src      blog.Source
	root     string
	resolver *blog.Resolver
	html     *markdown.HTML
	logger   *log.Logger

	mu    sync.RWMutex
	index blog.Index
}

// New returns a server for the index file at indexPath. The index is not
// read until Reload is called.
func New(indexPath string, logger *log.Logger) (*Server, error) {
	src := blog.Source{Location: indexPath}
	if src.Remote() {
		return nil, fmt.Errorf("serve needs a local blog index, got %s", indexPath)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		src:      src,
		root:     filepath.Dir(indexPath),
		resolver: blog.NewResolver(src, ""),
		html:     markdown.NewHTML(),
		logger:   logger,
		index:    blog.Index{Posts: blog.Fallback(), Outcome: blog.OutcomeAbsent},
	}, nil
}

// Reload re-reads the index. Failures keep serving the fallback post.
func (s *Server) Reload(ctx context.Context) blog.Index {
	idx := blog.Resolve(ctx, s.src)
	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()
	if idx.FellBack() {
		s.logger.Warn("blog index unavailable, serving sample data", "outcome", idx.Outcome, "err", idx.Err)
	} else {
		s.logger.Info("blog index loaded", "posts", len(idx.Posts))
	}
	return idx
}

// Index returns the working set currently served.
func (s *Server) Index() blog.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/blogs/blogIndex.json", s.serveIndex)
	r.Get("/blogs/*", s.serveFile)
	r.Get("/posts", s.listPosts)
	r.Get("/posts/{index}", s.showPost)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run serves on addr and reloads the index whenever the file changes, until
// ctx is cancelled or the process receives SIGINT/SIGTERM.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Reload(ctx)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := blog.Watch(gCtx, s.src.Location, s.logger, func() {
			s.Reload(gCtx)
		})
		if err != nil {
			s.logger.Warn("index watcher disabled", "err", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("serving blog", "addr", addr, "root", s.root)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			s.logger.Info("received shutdown signal", "signal", sig.String())
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http shutdown", "err", err)
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("server shut down")
