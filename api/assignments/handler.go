package assignments

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/fieldops/core/assign"
)

type commandRequest struct {
	Command string `json:"command"`
}

// NewCommandHandler returns an HTTP handler accepting free-text commands via
// POST /api/assignments/command. Requests must include an Authorization
// header with "Bearer <token>" when token is non-empty.
func NewCommandHandler(mgr *assign.Manager, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
			http.Error(w, "missing command", http.StatusBadRequest)
			return
		}
		rep := mgr.Handle(r.Context(), req.Command)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+token
}
