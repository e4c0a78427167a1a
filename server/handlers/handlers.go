// Package handlers implements the REST surface of the schedule server. All
// error bodies are {"message": string} with a 4xx/5xx status, which is the
// shape the frontend's toasts already parse.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globaltfn/remindme-server/extraction"
)

type ctxKey string

// UserKey carries the authenticated subject set by the auth middleware.
const UserKey ctxKey = "user"

type Handler struct {
	DbPool   *pgxpool.Pool
	Pipeline *extraction.Pipeline
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func decodeJSONBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
