// internal/api/config.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	configstore "site-builder/internal/services/site/config-store"
)

func (s *Server) getConfig(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Store.Get())
}

func (s *Server) patchConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var patch configstore.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	cfg, err := s.deps.Store.Update(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) patchSection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := s.deps.Store.UpdateNested(r.Context(), ps.ByName("section"), json.RawMessage(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) resetConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := s.deps.Store.Reset(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) importConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := s.deps.Store.Import(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) exportConfig(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	blob, err := s.deps.Store.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="business-config.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}
