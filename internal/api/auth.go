// internal/api/auth.go
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "site-builder/internal/common/errors"
)

// requireBearer rejects requests whose Authorization header does not carry
// token. An empty token leaves h open.
func requireBearer(token string, h httprouter.Handle) httprouter.Handle {
	if token == "" {
		return h
	}
	want := []byte(token)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, apperrors.NewUnauthorizedError("missing bearer token"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), want) != 1 {
			writeError(w, apperrors.NewUnauthorizedError("invalid bearer token"))
			return
		}
		h(w, r, ps)
	}
}

func (s *Server) admin(h httprouter.Handle) httprouter.Handle {
	return requireBearer(s.opts.AdminToken, h)
}
