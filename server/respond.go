package server

import (
	"encoding/json"
	"net/http"
)

// Stable error codes carried in the error envelope. Bots branch on these;
// the detail text may change, the codes must not.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
	codeRateLimited = "RATE_LIMITED"
	codeForbidden   = "FORBIDDEN"
	codeInternal    = "INTERNAL"
)

// errorBody is the envelope for every non-2xx response.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, detail string) {
	s.writeJSON(w, status, errorBody{Detail: detail, Code: code})
}
