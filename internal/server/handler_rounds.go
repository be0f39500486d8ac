package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/rota/internal/allocator"
	"github.com/me/rota/pkg/model"
)

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	rec, err := s.RunRound(r.Context())
	if err != nil {
		var exhausted *allocator.AttemptsExhaustedError
		if errors.Is(err, allocator.ErrEmptyRoster) || errors.As(err, &exhausted) {
			respondError(w, reqID, http.StatusConflict, model.NewConflictError(err.Error()))
			return
		}
		respondErr(w, reqID, err)
		return
	}
	respondCreated(w, reqID, rec)
}

// RunRound runs a complete allocation over the stored roster and records it
// in the audit log. Rounds are serialised; exclusion history carries over
// from earlier rounds until the roster is replaced.
func (s *Server) RunRound(ctx context.Context) (*model.RoundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.allocatorLocked(ctx)
	if err != nil {
		return nil, err
	}

	round, err := a.Complete(ctx)
	if err != nil {
		var exhausted *allocator.AttemptsExhaustedError
		if errors.As(err, &exhausted) {
			s.logger.Warn("allocation gave up", "attempts", exhausted.Attempts, "idle", exhausted.Idle)
		}
		return nil, err
	}

	rec := round.Record(roundID(), time.Now().UTC())
	if err := s.store.SaveRound(ctx, rec); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}
	s.logger.Info("round created", "id", rec.ID, "attempts", rec.Attempts)
	return rec, nil
}

// allocatorLocked returns the allocator for the stored roster, building it
// on first use. Callers must hold s.mu.
func (s *Server) allocatorLocked(ctx context.Context) (*allocator.Allocator, error) {
	if s.alloc != nil {
		return s.alloc, nil
	}
	rs, err := s.store.LoadRoster(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.config.Allocation.AllocatorConfig()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if s.metrics != nil {
		cfg.Observer = s.metrics
	}
	s.alloc = allocator.New(rs.Workers, rs.Jobs, cfg, s.logger)
	return s.alloc, nil
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts, err := listOptions(r)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	rounds, total, err := s.store.ListRounds(r.Context(), opts)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	respondList(w, reqID, rounds, opts.Page(total))
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	rec, err := s.store.GetRound(r.Context(), id)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	if rec == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("round", id))
		return
	}
	respondOK(w, reqID, rec)
}

// listOptions reads limit and offset query parameters over the defaults.
func listOptions(r *http.Request) (model.ListOptions, error) {
	opts := model.DefaultListOptions()
	q := r.URL.Query()

	var details []model.FieldError
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, model.FieldError{Field: "limit", Message: "must be an integer"})
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, model.FieldError{Field: "offset", Message: "must be an integer"})
		}
		opts.Offset = n
	}
	if len(details) > 0 {
		return opts, model.NewValidationError("invalid pagination", details...)
	}
	opts.Clamp()
	return opts, nil
}
