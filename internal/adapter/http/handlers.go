package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleDashboard serves the snapshot for the selection in the query string.
// Omitted parameters take their default value.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := domain.ParseSelection(q.Get("domain"), q.Get("year"), q.Get("metric"), q.Get("threshold"))
	if err != nil {
		s.metrics.InvalidSelections.Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap, err := s.dashboard.Snapshot(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, snap)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.Options(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, opts)
}

// handleView serves one domain's view configuration. The optional metric
// parameter selects the energy axis label.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	m, err := domain.ParseEnergyMetric(r.URL.Query().Get("metric"))
	if err != nil {
		s.metrics.InvalidSelections.Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sel := domain.DefaultSelection()
	sel.Domain = d
	sel.Metric = m
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.View(sel))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNotReady):
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidSelection):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("dashboard request failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
