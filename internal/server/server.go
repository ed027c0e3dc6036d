// Package server exposes the repair pipeline and the Base64 commands over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"

	"github.com/leofalp/jsonmend/core/editor"
	"github.com/leofalp/jsonmend/core/repair"
	"github.com/leofalp/jsonmend/internal/config"
	"github.com/leofalp/jsonmend/internal/metrics"
	"github.com/leofalp/jsonmend/providers/observability"
)

// Server serves the jsonmend HTTP API.
type Server struct {
	cfg      *config.Config
	pipeline *repair.Pipeline
	observer observability.Provider
	mux      *http.ServeMux
}

// New builds a Server. observer receives request logs and is attached to
// every request context.
func New(cfg *config.Config, pipeline *repair.Pipeline, observer observability.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		observer: observer,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /v1/repair", s.handleRepair)
	s.mux.HandleFunc("POST /v1/base64/encode", s.handleEncode)
	s.mux.HandleFunc("POST /v1/base64/decode", s.handleDecode)
	s.mux.HandleFunc("GET /health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler returns the root handler with request logging and metrics.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx := observability.ContextWithObserver(r.Context(), s.observer)
		r = r.WithContext(ctx)
		s.mux.ServeHTTP(rec, r)

		// The mux records the matched pattern on the request it was given.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.observer.Debug(ctx, "http request",
			observability.String(observability.AttrHTTPMethod, r.Method),
			observability.String(observability.AttrHTTPRoute, route),
			observability.Int(observability.AttrHTTPStatusCode, rec.status),
			observability.Int64(observability.AttrHTTPRequestBodySize, r.ContentLength),
			observability.Duration(observability.AttrDuration, time.Since(start)),
		)
	})
}

// ListenAndServe serves on cfg.Server.Addr until ctx is cancelled, then
// shuts down gracefully within cfg.Server.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.observer.Info(ctx, "server starting", observability.String("addr", s.cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr, err)
	case <-ctx.Done():
	}

	s.observer.Info(context.Background(), "server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.observer.Info(context.Background(), "server stopped")
	return nil
}

type repairResponse struct {
	OK          bool            `json:"ok"`
	Strategy    string          `json:"strategy,omitempty"`
	JSON        json.RawMessage `json:"json,omitempty"`
	Error       string          `json:"error,omitempty"`
	BestAttempt *string         `json:"best_attempt,omitempty"`
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	result := s.pipeline.Repair(r.Context(), body)
	formatted, err := result.Format()
	if err != nil {
		best := result.Text
		writeJSON(w, http.StatusUnprocessableEntity, repairResponse{
			Error:       err.Error(),
			BestAttempt: &best,
		})
		return
	}

	if path := r.URL.Query().Get("path"); path != "" {
		selected := gjson.Get(formatted, path)
		if !selected.Exists() {
			writeJSON(w, http.StatusNotFound, repairResponse{
				Strategy: result.Strategy,
				Error:    fmt.Sprintf("path %q not found in repaired JSON", path),
			})
			return
		}
		formatted = selected.Raw
	}

	writeJSON(w, http.StatusOK, repairResponse{
		OK:       true,
		Strategy: result.Strategy,
		JSON:     json.RawMessage(formatted),
	})
}

type base64Response struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
	// JSON reports whether decoded text is valid JSON, so clients know they
	// can send it to /v1/repair or use it directly.
	JSON *bool `json:"json,omitempty"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc := editor.Document{Text: body}
	outcome := editor.EncodeBase64(r.Context(), doc)
	metrics.Base64Operations.WithLabelValues("encode", "success").Inc()
	writeJSON(w, http.StatusOK, base64Response{OK: true, Text: outcome.Apply(doc)})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc := editor.Document{Text: body}
	outcome := editor.DecodeBase64(r.Context(), doc)
	if outcome.Err != nil {
		metrics.Base64Operations.WithLabelValues("decode", "invalid").Inc()
		writeJSON(w, http.StatusBadRequest, base64Response{Error: outcome.Err.Error()})
		return
	}

	metrics.Base64Operations.WithLabelValues("decode", "success").Inc()
	text := outcome.Apply(doc)
	valid := gjson.Valid(text)
	writeJSON(w, http.StatusOK, base64Response{OK: true, Text: text, JSON: &valid})
}

// readBody reads the request body up to cfg.Server.MaxBodySize. On failure
// it writes the error response and returns false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, repairResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return "", false
		}
		s.observer.Warn(r.Context(), "read body failed", observability.Error(err))
		writeJSON(w, http.StatusBadRequest, repairResponse{Error: "error reading request body"})
		return "", false
	}

	if !utf8.Valid(body) {
		writeJSON(w, http.StatusBadRequest, repairResponse{Error: "request body is not valid UTF-8"})
		return "", false
	}
	return string(body), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
