package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/data/db"
)

// GetTeachers lists the derived roster, optionally filtered by university
// and program. An empty result is a 404 that echoes the filters back, which
// is what the instructor picker in the frontend expects.
func (h *Handler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	university := r.URL.Query().Get("university")
	program := r.URL.Query().Get("program")

	q := db.New(h.DbPool)
	teachers, err := q.ListTeachers(r.Context(), university, program)
	if err != nil {
		log.WithError(err).Error("error fetching teachers")
		respondMessage(w, 500, err.Error())
		return
	}

	if len(teachers) == 0 {
		filters := map[string]string{}
		if university != "" {
			filters["university"] = university
		}
		if program != "" {
			filters["program"] = program
		}
		respondJSON(w, 404, map[string]any{
			"message": "No teachers found with the specified criteria",
			"filters": filters,
		})
		return
	}

	respondJSON(w, 200, teachers)
}
