package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/globaltfn/remindme-server/data/db"
)

var holidayDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	q := db.New(h.DbPool)
	holidays, err := q.ListHolidays(r.Context())
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	respondJSON(w, 200, holidays)
}

// UpsertHoliday adds or refreshes a holiday keyed on (name, date). Ranges
// spanning several days arrive as one request per date with the same name.
// The returned row's timestamps tell an insert from a refresh: they only
// match on the insert.
func (h *Handler) UpsertHoliday(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		respondMessage(w, 400, err.Error())
		return
	}
	if payload.Name == "" || payload.Date == "" {
		respondMessage(w, 400, "Name and date are required")
		return
	}
	if !holidayDatePattern.MatchString(payload.Date) {
		respondMessage(w, 400, "Date must be in DD-MM-YYYY format")
		return
	}

	q := db.New(h.DbPool)
	holiday, err := q.UpsertHoliday(r.Context(), payload.Name, payload.Date)
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	message := "Holiday updated successfully"
	if holiday.CreatedAt.Time.Equal(holiday.UpdatedAt.Time) {
		message = "Holiday added successfully"
	}
	respondJSON(w, 200, map[string]any{
		"message": message,
		"holiday": holiday,
	})
}

func (h *Handler) GetHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, 400, "Invalid holiday id")
		return
	}

	q := db.New(h.DbPool)
	holiday, err := q.GetHoliday(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondMessage(w, 404, "Holiday not found")
		return
	}
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	respondJSON(w, 200, holiday)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, 400, "Invalid holiday id")
		return
	}

	q := db.New(h.DbPool)
	deleted, err := q.DeleteHoliday(r.Context(), id)
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	if !deleted {
		respondMessage(w, 404, "Holiday not found")
		return
	}
	respondMessage(w, 200, "Holiday deleted successfully")
}
