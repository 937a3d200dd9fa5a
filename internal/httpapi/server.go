package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cartridge/experience/internal/middleware"
	"github.com/cartridge/experience/internal/replay"
	"github.com/cartridge/experience/internal/service"
)

const maxRequestBody = 8 * 1024 * 1024

// Server wires HTTP handlers to the replay service.
type Server struct {
	svc    *service.ReplayService
	logger zerolog.Logger
}

// NewServer constructs a Server instance.
func NewServer(svc *service.ReplayService, logger zerolog.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Routes builds the HTTP router for the replay service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(s.logger))
	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/transitions", s.handleAppend)
		r.Post("/sample", s.handleSample)
		r.Get("/stats", s.handleStats)
		r.Post("/reset", s.handleReset)
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type appendRequest struct {
	Transitions []service.TransitionInput `json:"transitions"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()

	var payload appendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(payload.Transitions) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one transition is required")
		return
	}

	result := s.svc.AppendBatch(r.Context(), payload.Transitions)
	s.writeJSON(w, http.StatusAccepted, result)
}

type sampleRequest struct {
	BatchSize int `json:"batch_size"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()

	var payload sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := s.svc.SampleBatch(r.Context(), payload.BatchSize)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Stats(r.Context()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.svc.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, replay.ErrInsufficientSamples):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, replay.ErrInvalidCapacity):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
