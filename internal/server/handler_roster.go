package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/me/rota/internal/roster"
	"github.com/me/rota/pkg/model"
)

// maxRosterBytes bounds PUT /roster bodies.
const maxRosterBytes = 1 << 20

type rosterSummary struct {
	Workers   int  `json:"workers"`
	Jobs      int  `json:"jobs"`
	Slots     int  `json:"slots"`
	Coverable bool `json:"coverable"`
}

func summarize(r *roster.Roster) rosterSummary {
	return rosterSummary{
		Workers:   len(r.Workers),
		Jobs:      len(r.Jobs),
		Slots:     r.Slots(),
		Coverable: r.Coverable(),
	}
}

func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	rs, err := s.store.LoadRoster(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, rs)
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	rs, err := s.store.LoadRoster(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, rs.Workers)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	rs, err := s.store.LoadRoster(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, rs.Jobs)
}

func (s *Server) handleReplaceRoster(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRosterBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respondError(w, reqID, http.StatusRequestEntityTooLarge,
				model.NewValidationError("roster too large"))
			return
		}
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("read body: "+err.Error()))
		return
	}

	var rs roster.Roster
	if err := roster.Decode(data, roster.FormatJSON, &rs); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid JSON", model.FieldError{Message: err.Error()}))
		return
	}
	if err := rs.Validate(); err != nil {
		respondErr(w, reqID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ReplaceRoster(r.Context(), &rs); err != nil {
		respondErr(w, reqID, err)
		return
	}
	s.alloc = nil

	s.logger.Info("roster replaced", "workers", len(rs.Workers), "jobs", len(rs.Jobs))
	respondOK(w, reqID, summarize(&rs))
}
