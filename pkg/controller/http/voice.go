package http

import (
	"errors"
	"net/http"

	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/errutil"
)

func (s *Server) handleCallStart(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Voice.StartCall(r.Context()); err != nil {
		switch {
		case errors.Is(err, usecase.ErrVoiceNotConfigured):
			errutil.HandleHTTP(r.Context(), w, err, http.StatusServiceUnavailable)
		case errors.Is(err, usecase.ErrCallAlreadyActive):
			errutil.HandleHTTP(r.Context(), w, err, http.StatusConflict)
		default:
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadGateway)
		}
		return
	}
	respondJSON(w, r, s.uc.Voice.Session())
}

func (s *Server) handleCallStop(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Voice.StopCall(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, r, s.uc.Voice.Session())
}

func (s *Server) handleCallStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, s.uc.Voice.Session())
}
