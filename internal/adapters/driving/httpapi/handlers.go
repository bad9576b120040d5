package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// maxGuessBody bounds POST /api/game bodies.
const maxGuessBody = 4 << 10

type messageResponse struct {
	Message string `json:"message"`
}

type unknownGuessResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type yesterdayResponse struct {
	AnswerName *string      `json:"answerName"`
	Date       *domain.Date `json:"date"`
}

type namesResponse struct {
	Names []string `json:"names"`
}

type cronResponse struct {
	Status  string                     `json:"status"`
	Message string                     `json:"message"`
	Details []string                   `json:"details"`
	Report  *domain.RegenerationReport `json:"report,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps a domain error to a status code and message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStaleVersion):
		writeMessage(w, http.StatusConflict, "Game data mismatch. Please refresh.")
	case errors.Is(err, domain.ErrFutureDate):
		writeMessage(w, http.StatusForbidden, "Ranking for a future date is not available.")
	case errors.Is(err, domain.ErrSnapshotNotFound):
		writeMessage(w, http.StatusNotFound, "Game data for this date has not been generated yet.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	default:
		logger.Error("request failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	info, err := s.game.Today(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Guess    *string `json:"guess"`
		AnswerID *int64  `json:"answerId"`
		Version  string  `json:"version"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGuessBody))
	if err := dec.Decode(&body); err != nil || body.Guess == nil || body.AnswerID == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.game.SubmitGuess(r.Context(), domain.Guess{
		Name:     *body.Guess,
		AnswerID: *body.AnswerID,
		Version:  body.Version,
	})
	if errors.Is(err, domain.ErrUnknownEntity) {
		writeJSON(w, http.StatusNotFound, unknownGuessResponse{
			Name:    *body.Guess,
			Message: "No entry with that name was found.",
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	var date *domain.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
			return
		}
		date = &d
	}

	view, err := s.game.Ranking(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleYesterday(w http.ResponseWriter, r *http.Request) {
	reveal, err := s.game.PreviousAnswer(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var resp yesterdayResponse
	if reveal != nil {
		resp.AnswerName = &reveal.AnswerName
		resp.Date = &reveal.Date
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.game.Names(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, namesResponse{Names: names})
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	report, err := s.regen.Regenerate(r.Context())
	if err == nil && report == nil {
		report = &domain.RegenerationReport{}
	}
	details := reportDetails(report)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, cronResponse{
			Status:  "error",
			Message: fmt.Sprintf("Regeneration failed: %v", err),
			Details: details,
			Report:  report,
		})
		return
	}

	resp := cronResponse{
		Status:  "success",
		Message: "Daily game data regenerated.",
		Details: details,
		Report:  report,
	}
	if report.Failed() {
		resp.Status = "partial"
		resp.Message = fmt.Sprintf("%d of %d dates failed.",
			report.Count(domain.DateStatusFailed), len(report.Dates))
	}
	writeJSON(w, http.StatusOK, resp)
}

// reportDetails renders one human-readable line per date.
func reportDetails(report *domain.RegenerationReport) []string {
	details := []string{}
	if report == nil {
		return details
	}
	for _, d := range report.Dates {
		line := fmt.Sprintf("%s: %s", d.Date, d.Status)
		switch d.Status {
		case domain.DateStatusFailed:
			line += " (" + d.Error + ")"
		case domain.DateStatusWritten, domain.DateStatusUnchanged:
			line += fmt.Sprintf(" (answer %d, version %s)", d.AnswerID, d.Version)
		}
		details = append(details, line)
	}
	if report.Pruned > 0 {
		details = append(details, fmt.Sprintf("pruned %d expired snapshot(s)", report.Pruned))
	}
	if report.PruneError != "" {
		details = append(details, "prune failed: "+report.PruneError)
	}
	return details
}
