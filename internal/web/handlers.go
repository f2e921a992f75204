package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchboard/internal/models"
)

// ValueBetsResponse is the page payload of the value-bet view
type ValueBetsResponse struct {
	ValueBets []models.ValueBet `json:"valueBets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.service.Dashboard(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// handleValueBets serves the selection in its computed order; limit only truncates.
func (s *Server) handleValueBets(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	selection, err := s.service.ValueBets(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	bets := selection.Candidates
	if bets == nil {
		bets = []models.ValueBet{}
	}
	if limit > 0 && limit < len(bets) {
		bets = bets[:limit]
	}
	writeJSON(w, http.StatusOK, ValueBetsResponse{ValueBets: bets})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	detail, err := s.service.MatchByKey(r.Context(), key)
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "match not found")
		return
	case errors.Is(err, models.ErrMatchKeyMissing):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if err := s.feed.Subscribe(w, r); err != nil {
		s.logger.WithError(err).WithField("request_id", RequestIDFromContext(r.Context())).Warn("Feed subscription failed")
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WithError(err).WithFields(logrus.Fields{
		"request_id": RequestIDFromContext(r.Context()),
		"path":       r.URL.Path,
	}).Error("Request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
