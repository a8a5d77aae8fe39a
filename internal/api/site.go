// internal/api/site.go
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	leadrelay "site-builder/internal/services/leads/lead-relay"
	generateimage "site-builder/internal/services/site/generate-image"
)

type exportRequest struct {
	Action     string `json:"action"`
	GithubRepo string `json:"githubRepo"`
}

func (s *Server) generateImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req generateimage.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result := s.deps.Images.Generate(r.Context(), req)
	switch {
	case result.Success:
		writeJSON(w, http.StatusOK, result)
	case result.Error == generateimage.ErrAPIKeyMissing.Error():
		writeJSON(w, http.StatusServiceUnavailable, result)
	default:
		writeJSON(w, http.StatusBadGateway, result)
	}
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.deps.Exporter.Run(r.Context(), req.Action, req.GithubRepo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) relayLead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.deps.Relay.HandleRaw(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Status == leadrelay.StatusFailed {
		s.logger.Warn("lead relay failed", map[string]interface{}{
			"notificationId": out.NotificationID,
			"channels":       out.Channels,
		})
		writeJSON(w, http.StatusBadGateway, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
