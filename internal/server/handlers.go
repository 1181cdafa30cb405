package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
	"github.com/osduviz/schemagraph/pkg/pipeline"
	"github.com/osduviz/schemagraph/pkg/schema"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"schemas": s.index.Len(),
	})
}

// handleListSchemas returns the indexed schema paths.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"schemas": s.index.Keys(),
	})
}

// handleBuildGraph extracts (and lays out) a graph for the posted schema.
//
// Query parameters:
//   - view: "erd" (default) or "legacy"
//   - filter: property/relation display filter
//   - layout: "false" to skip position assignment
func (s *Server) handleBuildGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, sgerrors.New(sgerrors.ErrCodeInvalidInput, "read body"))
		return
	}
	defer r.Body.Close()

	doc, err := schema.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, sgerrors.Wrap(sgerrors.ErrCodeInvalidSchema, err, "parse schema"))
		return
	}

	opts := pipeline.Defaults()
	opts.ERDView = r.URL.Query().Get("view") != "legacy"
	opts.Filter = r.URL.Query().Get("filter")
	opts.Layout = r.URL.Query().Get("layout") != "false"

	result, err := s.runner.Execute(r.Context(), doc, s.index, opts)
	if err != nil {
		s.logger.Error("graph build failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts["json"])
}

// handleSaveGraph persists a graph under a generated id.
func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, sgerrors.New(sgerrors.ErrCodeUnsupported, "graph store not configured"))
		return
	}

	var req SavedGraph
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, sgerrors.Wrap(sgerrors.ErrCodeInvalidGraph, err, "decode graph"))
		return
	}

	saved, err := s.store.Save(r.Context(), req)
	if err != nil {
		s.logger.Error("graph save failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleGetGraph fetches a previously saved graph.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, sgerrors.New(sgerrors.ErrCodeUnsupported, "graph store not configured"))
		return
	}

	saved, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if sgerrors.Is(err, sgerrors.ErrCodeGraphNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("graph fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := string(sgerrors.GetCode(err))
	if code == "" {
		code = string(sgerrors.ErrCodeInternal)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: sgerrors.UserMessage(err)})
}
