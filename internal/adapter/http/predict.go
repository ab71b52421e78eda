package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

type predictResponse struct {
	FloodPrediction string  `json:"flood_prediction"`
	RiskPercentage  float64 `json:"risk_percentage"`
	Probability     float64 `json:"probability"`
	Label           int     `json:"label"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	row, err := domain.ParseFeatureRow(body)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	a, err := s.handlers.Assessor.Assess(r.Context(), row)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{
		FloodPrediction: a.FloodPrediction,
		RiskPercentage:  a.RiskPercentage,
		Probability:     a.Probability,
		Label:           a.Label,
	})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stats, err := s.handlers.Stats.Stats(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeDomainError maps prediction and corpus errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDataFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownCategory):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
