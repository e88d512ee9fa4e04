// Package server exposes the renderer over HTTP for quick previews.
//
// Routes:
//
//	GET /healthz                    build info and manifest summary
//	GET /legend.png                 legend of the configured catalogs
//	GET /variations/{n}.png         variation n; ?phrase= overrides the words
//	GET /tiles/{id}                 resolved sprite positions as JSON
//
// Every request goes through the same [pipeline.Runner] the CLI uses, so
// rendered images land in the shared artifact cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dontpanic/pkg/atlas"
	"github.com/matzehuels/dontpanic/pkg/buildinfo"
	apperr "github.com/matzehuels/dontpanic/pkg/errors"
	"github.com/matzehuels/dontpanic/pkg/observability"
	"github.com/matzehuels/dontpanic/pkg/pipeline"
)

const (
	shutdownTimeout = 5 * time.Second

	// statusClientClosed is nginx's code for a request the client abandoned.
	statusClientClosed = 499
)

// Server serves one loaded tileset.
type Server struct {
	runner *pipeline.Runner
	idx    *atlas.Index
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New builds the router. The index is warmed with the configured catalogs
// so concurrent requests only read from it.
func New(runner *pipeline.Runner, idx *atlas.Index, opts pipeline.Options) *Server {
	idx.Warm(append(opts.ItemIDs(), opts.Terrains...)...)

	s := &Server{
		runner: runner,
		idx:    idx,
		opts:   opts,
		logger: runner.Logger.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hooks)
	r.Get("/healthz", s.health)
	r.Get("/legend.png", s.legend)
	r.Get("/variations/{n}.png", s.variation)
	r.Get("/tiles/{id}", s.tile)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "manifest", s.idx.Path())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Manifest string         `json:"manifest"`
	Chunks   int            `json:"chunks"`
	Tiles    int            `json:"tiles"`
	IDs      int            `json:"ids"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Build:    buildinfo.Current(),
		Manifest: s.idx.Path(),
		Chunks:   len(s.idx.Chunks()),
		Tiles:    s.idx.TileCount(),
		IDs:      s.idx.IDCount(),
	})
}

func (s *Server) legend(w http.ResponseWriter, r *http.Request) {
	data, err := s.runner.RenderLegend(r.Context(), s.idx, s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	writePNG(w, data, false)
}

func (s *Server) variation(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > pipeline.MaxVariations {
		s.fail(w, apperr.New(apperr.ErrCodeInvalidInput, "variation must be an integer between 1 and %d", pipeline.MaxVariations))
		return
	}

	opts := s.opts
	if phrase := r.URL.Query().Get("phrase"); phrase != "" {
		opts.Words = pipeline.SplitPhrase(phrase)
		if err := apperr.ValidatePhrase(opts.Words); err != nil {
			s.fail(w, err)
			return
		}
	}

	v, err := s.runner.RenderVariation(r.Context(), s.idx, opts, n)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("X-Seed", strconv.FormatUint(v.Seed, 10))
	writePNG(w, v.PNG, v.Cached)
}

func (s *Server) tile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tile, ok := s.idx.FindTile(id)
	if !ok {
		s.fail(w, apperr.New(apperr.ErrCodeAssetMissing, "no tile entry for %q", id))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		atlas.Tile
	}{id, tile})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: apperr.UserMessage(err)})
}

func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidPhrase, apperr.ErrCodeInvalidColor:
		return http.StatusBadRequest
	case apperr.ErrCodeAssetMissing:
		return http.StatusNotFound
	}
	if errors.Is(err, context.Canceled) {
		return statusClientClosed
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, data []byte, cached bool) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// hooks reports every request to the registered HTTP hooks. Responses are
// keyed by the matched route pattern.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}
