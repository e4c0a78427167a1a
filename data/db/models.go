package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/globaltfn/remindme-server/schedule"
)

// ScheduleRow is a saved schedule document. The week lives in a single JSONB
// column so a save is always a whole-document overwrite, matching the
// last-write-wins semantics the frontend was built against.
type ScheduleRow struct {
	ID         string                `json:"ID"`
	Semester   string                `json:"semester"`
	Program    string                `json:"program"`
	Section    string                `json:"section"`
	University string                `json:"university"`
	Name       pgtype.Text           `json:"Name"`
	StartDate  pgtype.Text           `json:"Start_Date"`
	EndDate    pgtype.Text           `json:"End_Date"`
	CreatedBy  pgtype.Text           `json:"created_by"`
	Week       schedule.WeekSchedule `json:"schedule"`
	CreatedAt  pgtype.Timestamptz    `json:"createdAt"`
	UpdatedAt  pgtype.Timestamptz    `json:"updatedAt"`
}

type TeacherRow struct {
	Name        string      `json:"name"`
	University  string      `json:"university"`
	Program     string      `json:"program"`
	Email       pgtype.Text `json:"email,omitempty"`
	PhoneNumber pgtype.Text `json:"phoneNumber,omitempty"`
}

type HolidayRow struct {
	ID        uuid.UUID          `json:"_id"`
	Name      string             `json:"name"`
	Date      string             `json:"date"`
	CreatedAt pgtype.Timestamptz `json:"createdAt"`
	UpdatedAt pgtype.Timestamptz `json:"updatedAt"`
}
