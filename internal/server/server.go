// Package server is the dev preview: it serves the build output over HTTP
// and, in watch mode, re-runs a full build when the source tree changes.
// There is no browser push; the user refreshes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Options configures the preview server.
type Options struct {
	Addr string // listen address, e.g. ":8080"
	Dir  string // directory to serve
}

// Server serves a built site directory.
type Server struct {
	opts Options
	http *http.Server
}

func New(opts Options) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", logRequests(http.FileServer(http.Dir(opts.Dir))))

	return &Server{
		opts: opts,
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return siteerrors.FileSystemError("listen "+s.opts.Addr, err)
	}
	slog.Info("Preview server listening", "addr", fmt.Sprintf("http://%s/", ln.Addr()), "dir", s.opts.Dir)

	errc := make(chan error, 1)
	go func() {
		errc <- s.http.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("Preview server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
