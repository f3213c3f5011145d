package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/weegaboo/agro-mvp/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s req_id=%s err=%v",
			r.Method, r.URL.Path, obs.RequestID(r.Context()), err)
	}
}

// errorBody echoes the request id so clients can quote it when reporting
// a failed plan.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Error: msg, RequestID: obs.RequestID(r.Context())})
}
