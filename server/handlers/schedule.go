package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/data/db"
	"github.com/globaltfn/remindme-server/roster"
	"github.com/globaltfn/remindme-server/schedule"
)

func (h *Handler) GetScheduleIDs(w http.ResponseWriter, r *http.Request) {
	q := db.New(h.DbPool)
	ids, err := q.ListScheduleIDs(r.Context())
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	respondJSON(w, 200, map[string][]string{"ids": ids})
}

func (h *Handler) FindSchedule(w http.ResponseWriter, r *http.Request) {
	q := db.New(h.DbPool)
	row, err := q.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		respondMessage(w, 404, "Schedule not found")
		return
	}
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}
	respondJSON(w, 200, row)
}

// AddSchedule creates or fully overwrites the document under its composite
// ID (last write wins) and then derives the teacher roster from the saved
// week as a side effect.
func (h *Handler) AddSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ctx.Value(UserKey).(string)

	var payload schedule.Record
	if err := decodeJSONBody(r, &payload); err != nil {
		respondMessage(w, 400, err.Error())
		return
	}
	if payload.ID == "" {
		respondMessage(w, 400, "ID is required")
		return
	}

	q := db.New(h.DbPool)
	existed, err := q.UpsertSchedule(ctx, db.UpsertScheduleParams{
		ID:         payload.ID,
		Semester:   payload.Semester,
		Program:    payload.Program,
		Section:    payload.Section,
		University: payload.University,
		Name:       textOrNull(payload.Name),
		StartDate:  textOrNull(payload.StartDate),
		EndDate:    textOrNull(payload.EndDate),
		CreatedBy:  textOrNull(userID),
		Week:       payload.Week,
	})
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}

	roster.Derive(ctx, q, payload.Week, payload.University, payload.Program)

	if existed {
		respondMessage(w, 200, "Schedule updated successfully")
		return
	}
	respondMessage(w, 200, "Schedule added successfully")
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	q := db.New(h.DbPool)
	deleted, err := q.DeleteSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.WithError(err).Error("error deleting schedule")
		respondMessage(w, 500, err.Error())
		return
	}
	if !deleted {
		respondMessage(w, 404, "Schedule Not Found")
		return
	}
	respondMessage(w, 200, "Schedule deleted")
}

func textOrNull(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}
