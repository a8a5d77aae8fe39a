// internal/api/reputation.go
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	reputationgate "site-builder/internal/services/reputation/reputation-gate"
)

type ratingRequest struct {
	Stars int `json:"stars"`
}

type feedbackResponse struct {
	Success  bool                    `json:"success"`
	Error    string                  `json:"error,omitempty"`
	Snapshot reputationgate.Snapshot `json:"session"`
}

func (s *Server) createSession(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	gate, err := s.deps.Sessions.Create()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gate.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	gate, err := s.deps.Sessions.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gate.Snapshot())
}

func (s *Server) rate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gate, err := s.deps.Sessions.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := gate.Rate(req.Stars)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gate, err := s.deps.Sessions.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var in reputationgate.FeedbackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.IdempotencyKey, err = idempotencyKey(r); err != nil {
		writeError(w, err)
		return
	}
	result, err := gate.SubmitFeedback(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, feedbackResponse{
		Success:  result.Success,
		Error:    result.Error,
		Snapshot: gate.Snapshot(),
	})
}
