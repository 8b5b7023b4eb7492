package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/me/groupsched/internal/export"
	"github.com/me/groupsched/internal/parser"
	"github.com/me/groupsched/internal/scheduler"
	"github.com/me/groupsched/pkg/model"
)

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	states, err := export.ParseStates(r.URL.Query().Get("state"))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid state filter", model.FieldError{Field: "state", Message: err.Error()}))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Cannot read body: " + err.Error(),
		})
		return
	}

	sc, err := s.parser.ParseInline(body)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, parseError(err))
		return
	}
	if err := sc.Validate(); err != nil {
		respondError(w, reqID, http.StatusBadRequest, scenarioError(err))
		return
	}
	if ticks := sc.Timeline.Ticks(); s.config.MaxTicks > 0 && ticks > s.config.MaxTicks {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("horizon too long",
				model.FieldError{Field: "timeline", Message: fmt.Sprintf("%d ticks exceeds the limit of %d", ticks, s.config.MaxTicks)}))
		return
	}

	if !s.active.acquire(r.Context()) {
		respondError(w, reqID, http.StatusServiceUnavailable, &model.APIError{
			Code:    model.ErrUnavailable,
			Message: "request cancelled while waiting for a simulation slot",
		})
		return
	}
	defer s.active.release()

	sched, err := scheduler.New(sc, s.simLogger.With("request_id", reqID))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, scenarioError(err))
		return
	}
	start := time.Now()
	res, err := sched.Run()
	if err != nil {
		status, apiErr := runError(err)
		s.logger.Warn("simulation halted", "scenario", sc.Name, "status", status, "error", err)
		respondError(w, reqID, status, apiErr)
		return
	}

	resp := model.SimulationResponse{
		Scenario: sc.Name,
		Timeline: res.Timeline,
		Passes:   res.Passes,
		Schedule: export.BuildRows(res, states...),
		Registry: res.Registry,
		Groups:   res.Groups,
	}
	if resp.Schedule == nil {
		resp.Schedule = []model.ScheduleRow{}
	}

	if s.store == nil {
		s.logger.Info("simulation finished", "scenario", sc.Name, "passes", res.Passes, "elapsed", time.Since(start).String())
		respondOK(w, reqID, resp)
		return
	}

	run := &model.RunSummary{Scenario: sc.Name}
	if err := s.store.SaveRun(r.Context(), run, res); err != nil {
		respondInternal(w, reqID, err)
		return
	}
	resp.RunID = run.ID
	s.logger.Info("simulation stored", "id", run.ID, "scenario", sc.Name, "passes", res.Passes, "elapsed", time.Since(start).String())
	respondCreated(w, reqID, resp)
}

// parseError maps a parser failure to an API error.
func parseError(err error) *model.APIError {
	switch {
	case errors.Is(err, parser.ErrFileReference):
		return model.NewValidationError("file references are not accepted over HTTP",
			model.FieldError{Field: "catalog", Message: err.Error()})
	case errors.Is(err, parser.ErrUndecodable):
		return &model.APIError{Code: model.ErrUnprocessable, Message: err.Error()}
	default:
		return &model.APIError{Code: model.ErrValidation, Message: "Invalid scenario: " + err.Error()}
	}
}

// runError maps a failed run to a status and API error. Invariant
// violations are the scenario's fault; anything else is ours.
func runError(err error) (int, *model.APIError) {
	var v *model.InvariantViolation
	var se *model.SettleError
	switch {
	case errors.As(err, &v):
		return http.StatusUnprocessableEntity, &model.APIError{Code: model.ErrInvariant, Message: v.Error(), Diagnostics: v}
	case errors.As(err, &se):
		return http.StatusInternalServerError, &model.APIError{Code: model.ErrUnsettled, Message: se.Error(), Diagnostics: se}
	default:
		return http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()}
	}
}

// scenarioError maps a validation failure to an API error with the
// offending field.
func scenarioError(err error) *model.APIError {
	var ce *model.ConfigError
	var ee *model.EmptyGroupError
	switch {
	case errors.As(err, &ce):
		return model.NewValidationError("invalid scenario", model.FieldError{Field: ce.Field, Message: ce.Reason})
	case errors.As(err, &ee):
		return model.NewValidationError("invalid scenario", model.FieldError{Field: "groups", Message: ee.Error()})
	default:
		return model.NewValidationError("invalid scenario", model.FieldError{Message: err.Error()})
	}
}
