// Package db is the hand-written query layer over pgx. Queries wraps any
// pgx connection-ish value (pool, conn, or tx) the same way generated query
// layers do, so callers can run it inside transactions when they need to.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/globaltfn/remindme-server/schedule"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// ErrNotFound is pgx.ErrNoRows re-exported so handlers do not need to reach
// into pgx to distinguish a missing row from a real failure.
var ErrNotFound = pgx.ErrNoRows

const listScheduleIDs = `
SELECT id FROM schedules ORDER BY id
`

func (q *Queries) ListScheduleIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listScheduleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const getSchedule = `
SELECT id, semester, program, section, university, name, start_date, end_date,
       created_by, week, created_at, updated_at
FROM schedules
WHERE id = $1
`

func (q *Queries) GetSchedule(ctx context.Context, id string) (ScheduleRow, error) {
	var row ScheduleRow
	var week []byte
	err := q.db.QueryRow(ctx, getSchedule, id).Scan(
		&row.ID,
		&row.Semester,
		&row.Program,
		&row.Section,
		&row.University,
		&row.Name,
		&row.StartDate,
		&row.EndDate,
		&row.CreatedBy,
		&week,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return ScheduleRow{}, err
	}
	if err := json.Unmarshal(week, &row.Week); err != nil {
		return ScheduleRow{}, fmt.Errorf("corrupt week document for %s: %w", id, err)
	}
	return row, nil
}

const upsertSchedule = `
INSERT INTO schedules (id, semester, program, section, university, name,
                       start_date, end_date, created_by, week)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    semester   = EXCLUDED.semester,
    program    = EXCLUDED.program,
    section    = EXCLUDED.section,
    university = EXCLUDED.university,
    name       = EXCLUDED.name,
    start_date = EXCLUDED.start_date,
    end_date   = EXCLUDED.end_date,
    created_by = EXCLUDED.created_by,
    week       = EXCLUDED.week,
    updated_at = now()
`

type UpsertScheduleParams struct {
	ID         string
	Semester   string
	Program    string
	Section    string
	University string
	Name       pgtype.Text
	StartDate  pgtype.Text
	EndDate    pgtype.Text
	CreatedBy  pgtype.Text
	Week       schedule.WeekSchedule
}

// UpsertSchedule creates the document on first save and fully overwrites it
// on every later save with the same ID. There are no merge semantics.
func (q *Queries) UpsertSchedule(ctx context.Context, arg UpsertScheduleParams) (bool, error) {
	week, err := json.Marshal(arg.Week)
	if err != nil {
		return false, err
	}

	var existed bool
	if err := q.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schedules WHERE id = $1)`, arg.ID).Scan(&existed); err != nil {
		return false, err
	}

	_, err = q.db.Exec(ctx, upsertSchedule,
		arg.ID,
		arg.Semester,
		arg.Program,
		arg.Section,
		arg.University,
		arg.Name,
		arg.StartDate,
		arg.EndDate,
		arg.CreatedBy,
		week,
	)
	return existed, err
}

const deleteSchedule = `
DELETE FROM schedules WHERE id = $1
`

// DeleteSchedule reports whether a row was actually removed.
func (q *Queries) DeleteSchedule(ctx context.Context, id string) (bool, error) {
	tag, err := q.db.Exec(ctx, deleteSchedule, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const listSchedules = `
SELECT id, semester, program, section, university, name, start_date, end_date,
       created_by, week, created_at, updated_at
FROM schedules
ORDER BY id
`

func (q *Queries) ListSchedules(ctx context.Context) ([]ScheduleRow, error) {
	rows, err := q.db.Query(ctx, listSchedules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ScheduleRow
	for rows.Next() {
		var row ScheduleRow
		var week []byte
		if err := rows.Scan(
			&row.ID,
			&row.Semester,
			&row.Program,
			&row.Section,
			&row.University,
			&row.Name,
			&row.StartDate,
			&row.EndDate,
			&row.CreatedBy,
			&week,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(week, &row.Week); err != nil {
			return nil, fmt.Errorf("corrupt week document for %s: %w", row.ID, err)
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

const teacherExists = `
SELECT EXISTS (SELECT 1 FROM teachers WHERE name = $1)
`

// TeacherExists checks by name only, matching the lazy-insert rule: a teacher
// seen under any (university, program) is never re-inserted by the deriver.
func (q *Queries) TeacherExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, teacherExists, name).Scan(&exists)
	return exists, err
}

const insertTeacher = `
INSERT INTO teachers (name, university, program)
VALUES ($1, $2, $3)
ON CONFLICT (name, university, program) DO NOTHING
`

func (q *Queries) InsertTeacher(ctx context.Context, name, university, program string) error {
	_, err := q.db.Exec(ctx, insertTeacher, name, university, program)
	return err
}

const listTeachers = `
SELECT name, university, program, email, phone_number
FROM teachers
WHERE ($1 = '' OR university = $1)
  AND ($2 = '' OR program = $2)
ORDER BY name
`

func (q *Queries) ListTeachers(ctx context.Context, university, program string) ([]TeacherRow, error) {
	rows, err := q.db.Query(ctx, listTeachers, university, program)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []TeacherRow
	for rows.Next() {
		var t TeacherRow
		if err := rows.Scan(&t.Name, &t.University, &t.Program, &t.Email, &t.PhoneNumber); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

const listHolidays = `
SELECT id, name, date, created_at, updated_at
FROM holidays
ORDER BY date
`

func (q *Queries) ListHolidays(ctx context.Context) ([]HolidayRow, error) {
	rows, err := q.db.Query(ctx, listHolidays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []HolidayRow{}
	for rows.Next() {
		var h HolidayRow
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

const getHoliday = `
SELECT id, name, date, created_at, updated_at
FROM holidays
WHERE id = $1
`

func (q *Queries) GetHoliday(ctx context.Context, id uuid.UUID) (HolidayRow, error) {
	var h HolidayRow
	err := q.db.QueryRow(ctx, getHoliday, id).Scan(&h.ID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

const upsertHoliday = `
INSERT INTO holidays (id, name, date)
VALUES ($1, $2, $3)
ON CONFLICT (name, date) DO UPDATE SET updated_at = now()
RETURNING id, name, date, created_at, updated_at
`

// UpsertHoliday keys on (name, date): multi-day holidays are stored as the
// same name repeated over consecutive dates.
func (q *Queries) UpsertHoliday(ctx context.Context, name, date string) (HolidayRow, error) {
	var h HolidayRow
	err := q.db.QueryRow(ctx, upsertHoliday, uuid.New(), name, date).
		Scan(&h.ID, &h.Name, &h.Date, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

const deleteHoliday = `
DELETE FROM holidays WHERE id = $1
`

func (q *Queries) DeleteHoliday(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx, deleteHoliday, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
