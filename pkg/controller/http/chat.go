package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/errutil"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply model.VisibleMessage `json:"reply"`
}

type transcriptResponse struct {
	Messages []model.VisibleMessage `json:"messages"`
	Typing   bool                   `json:"typing"`
	Open     bool                   `json:"open"`
	Greeting string                 `json:"greeting"`
}

type widgetResponse struct {
	Open bool `json:"open"`
}

// handleChat runs one message exchange and returns the reply. The reply
// is always a bot message; upstream failures surface as a canned
// fallback, not an error status.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid chat request body"), http.StatusBadRequest)
		return
	}

	reply, err := s.uc.Chat.SendMessage(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyMessage) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, chatResponse{Reply: reply})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, s.transcript())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.uc.Chat.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWidgetOpen(w http.ResponseWriter, r *http.Request) {
	s.uc.Chat.Open()
	respondJSON(w, r, widgetResponse{Open: true})
}

func (s *Server) handleWidgetClose(w http.ResponseWriter, r *http.Request) {
	s.uc.Chat.Close()
	respondJSON(w, r, widgetResponse{Open: false})
}

func (s *Server) transcript() transcriptResponse {
	msgs := s.uc.Chat.Messages()
	if msgs == nil {
		msgs = []model.VisibleMessage{}
	}
	return transcriptResponse{
		Messages: msgs,
		Typing:   s.uc.Chat.Typing(),
		Open:     s.uc.Chat.IsOpen(),
		Greeting: s.uc.Chat.Greeting(),
	}
}
