// Package server serves a browser gallery of the rendered QC figures,
// live-reloading while a run is still producing data.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves rendered figures from a directory.
type Server struct {
	dir    string
	port   int
	logger *slog.Logger

	clientsMu sync.Mutex
	clients   map[chan struct{}]struct{}
}

// Config holds server configuration.
type Config struct {
	// Dir is the directory of rendered figures.
	Dir string
	// Port is the TCP port to listen on.
	Port int
	// Logger is the structured logger (optional, discards if nil).
	Logger *slog.Logger
}

// New creates a gallery server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		dir:     cfg.Dir,
		port:    cfg.Port,
		logger:  logger,
		clients: make(map[chan struct{}]struct{}),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/events", s.handleEvents)

	fileServer := http.StripPrefix("/plots/", http.FileServer(http.Dir(s.dir)))
	r.Get("/plots/*", fileServer.ServeHTTP)

	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	go s.watchLoop(ctx, watcher)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("serving plot gallery", "addr", fmt.Sprintf("http://localhost:%d", s.port), "dir", s.dir)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchLoop notifies connected clients whenever figures change.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			if !isFigure(event.Name) {
				continue
			}
			s.notifyClients()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) notifyClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// handleEvents is the SSE endpoint the gallery page listens on for
// reload notifications.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	ch := make(chan struct{}, 1)
	s.clientsMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, ch)
		s.clientsMu.Unlock()
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprint(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>lrplot gallery</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #fafafa; }
h1 { font-size: 1.3em; }
.figure { background: #fff; border: 1px solid #ddd; border-radius: 4px;
          margin-bottom: 2em; padding: 1em; }
.figure img { max-width: 100%; }
.figure .name { color: #555; font-size: 0.9em; margin-bottom: 0.5em; }
</style>
</head>
<body>
<h1>lrplot gallery</h1>
{{if not .Figures}}<p>No plots yet.</p>{{end}}
{{range .Figures}}
<div class="figure">
  <div class="name">{{.}}</div>
  <img src="/plots/{{.}}" alt="{{.}}">
</div>
{{end}}
<script>
new EventSource("/events").onmessage = () => location.reload();
</script>
</body>
</html>
`))

// handleIndex renders the gallery page listing all figures in the
// output directory.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	figures, err := s.listFigures()
	if err != nil {
		s.logger.Error("failed to list figures", "error", err)
		http.Error(w, "failed to list figures", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]any{"Figures": figures}); err != nil {
		s.logger.Error("failed to render gallery", "error", err)
	}
}

func (s *Server) listFigures() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var figures []string
	for _, e := range entries {
		if !e.IsDir() && isFigure(e.Name()) {
			figures = append(figures, e.Name())
		}
	}
	sort.Strings(figures)
	return figures, nil
}

// isFigure reports whether a file is a rendered figure the browser can
// display.
func isFigure(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".svg":
		return true
	default:
		return false
	}
}
