// Package docserver is a minimal shared document store speaking the same
// protocol as the hosted remote: GET returns the document, POST replaces it.
// It lets several painel instances sync on a local network or in tests.
package docserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/hay-kot/painel/internal/core/kv"
	"github.com/hay-kot/painel/internal/data/stores"
)

const (
	// Namespace scopes the server's keys inside the shared KV table.
	Namespace = "docserver"

	documentKey  = "document"
	maxBodyBytes = 4 << 20
)

// Server stores a single JSON document.
type Server struct {
	docs *kv.TypedKV[json.RawMessage]
	path string
	log  zerolog.Logger
}

// New returns a server exposing the document at path.
func New(store kv.KV, path string, logger zerolog.Logger) *Server {
	return &Server{
		docs: kv.Scoped[json.RawMessage](store, Namespace),
		path: path,
		log:  logger,
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.Use(allowAnyOrigin)

	r.Methods(http.MethodGet).Path(s.path).HandlerFunc(s.getDocument)
	r.Methods(http.MethodPost).Path(s.path).HandlerFunc(s.putDocument)
	r.Methods(http.MethodOptions).Path(s.path).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("path", s.path).Msg("document server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(r.Context(), documentKey)
	switch {
	case stores.IsNotFoundError(err):
		doc = json.RawMessage(`{}`)
	case err != nil:
		s.log.Error().Err(err).Msg("failed to read document")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc)
}

// putDocument accepts any content type: clients post JSON as text/plain to
// avoid a CORS preflight.
func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	trimmed := bytes.TrimSpace(body)
	var obj map[string]json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &obj) != nil {
		http.Error(w, "body must be a JSON object", http.StatusBadRequest)
		return
	}

	if err := s.docs.Set(r.Context(), documentKey, json.RawMessage(trimmed)); err != nil {
		s.log.Error().Err(err).Msg("failed to store document")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Int64("bytes", m.Written).
			Dur("duration", m.Duration).
			Msg("handled")
	})
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}
