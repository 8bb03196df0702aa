package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vegasq/listview/reader"
	"github.com/vegasq/listview/store"
	"github.com/vegasq/listview/view"
)

// maxBodyBytes bounds the size of a view definition request body
const maxBodyBytes = 1 << 20

// errBadRequest marks malformed request input
var errBadRequest = errors.New("bad request")

// errFetch marks failures of the list fetch collaborator
var errFetch = errors.New("failed to fetch lists")

type errorResponse struct {
	Error string `json:"error"`
}

// httpStatus maps errors to HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, view.ErrInvalidView), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, reader.ErrUnknownList):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeView reads a view definition from the request body
func decodeView(w http.ResponseWriter, r *http.Request) (view.ViewDefinition, error) {
	var def view.ViewDefinition
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return view.ViewDefinition{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return def, nil
}

func (s *Server) listViews(w http.ResponseWriter, r *http.Request) {
	views, err := s.views.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []view.ViewDefinition{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createView(w http.ResponseWriter, r *http.Request) {
	def, err := decodeView(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if def.ID != "" {
		s.writeError(w, r, fmt.Errorf("%w: id is assigned by the server", errBadRequest))
		return
	}

	saved, err := s.views.Save(def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("view created", "id", saved.ID, "name", saved.Name)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	def, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) updateView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.views.Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	def, err := decodeView(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if def.ID != "" && def.ID != id {
		s.writeError(w, r, fmt.Errorf("%w: body id %q does not match %q", errBadRequest, def.ID, id))
		return
	}
	def.ID = id

	saved, err := s.views.Save(def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("view updated", "id", saved.ID)
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.views.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("view deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) materializeSaved(w http.ResponseWriter, r *http.Request) {
	def, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// View files written by hand never went through Save
	if err := def.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.materialize(w, r, def)
}

func (s *Server) materializePreview(w http.ResponseWriter, r *http.Request) {
	def, err := decodeView(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := def.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.materialize(w, r, def)
}

// materialize fetches the lists of def and writes the materialized result.
// An optional limit query parameter caps the number of records returned.
func (s *Server) materialize(w http.ResponseWriter, r *http.Request, def view.ViewDefinition) {
	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}

	ctx := r.Context()
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := s.lists.Fetch(ctx, def.Sources)
	if err != nil {
		s.metrics.fetchFailures.Inc()
		if !errors.Is(err, reader.ErrUnknownList) {
			err = fmt.Errorf("%w: %w", errFetch, err)
		}
		s.writeError(w, r, err)
		return
	}

	result := view.Materialize(def, snap)
	s.metrics.observeMaterialize(def.Mode, snap, start)
	s.logger.Debug("view materialized",
		"view", def.Name,
		"mode", def.Mode,
		"records", len(result.Records),
		"relationships", len(result.Relationships))

	if limit >= 0 && len(result.Records) > limit {
		result.Records = result.Records[:limit]
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listLists(w http.ResponseWriter, _ *http.Request) {
	sources := s.lists.Sources()
	if sources == nil {
		sources = []view.Source{}
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) listColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := s.lists.Columns(chi.URLParam(r, "siteId"), chi.URLParam(r, "listId"))
	if err != nil {
		if !errors.Is(err, reader.ErrUnknownList) {
			err = fmt.Errorf("%w: %w", errFetch, err)
		}
		s.writeError(w, r, err)
		return
	}
	if columns == nil {
		columns = []view.ColumnMetadata{}
	}
	writeJSON(w, http.StatusOK, columns)
}
