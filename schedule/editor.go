package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateID rejects a submission whose composite ID already exists
	// and is not the record currently loaded for update.
	ErrDuplicateID = errors.New("schedule ID already exists, please select another ID")

	// ErrNothingSelected rejects a deletion when no saved record is loaded.
	ErrNothingSelected = errors.New("nothing is selected")

	// ErrNoPendingAction means Confirm was called with nothing staged.
	ErrNoPendingAction = errors.New("no pending action to confirm")

	// ErrIncompleteID rejects a submission before all four ID parts are set.
	ErrIncompleteID = errors.New("university, program, semester and section are required")
)

// Header is the schedule metadata edited alongside the week. ID is derived
// from the four constituent parts and never set directly; SelectedID tracks
// which saved record, if any, the editor currently has loaded.
type Header struct {
	University string
	Program    string
	Semester   string
	Section    string
	Name       string
	StartDate  string
	EndDate    string
	ID         string
	SelectedID string
}

// Record is the immutable snapshot of an edited schedule: what gets sent to
// and returned by the persistence endpoints.
type Record struct {
	ID         string       `json:"ID"`
	Semester   string       `json:"semester"`
	Program    string       `json:"program"`
	Section    string       `json:"section"`
	University string       `json:"university"`
	Name       string       `json:"Name,omitempty"`
	StartDate  string       `json:"Start_Date,omitempty"`
	EndDate    string       `json:"End_Date,omitempty"`
	Week       WeekSchedule `json:"schedule"`
}

// PendingAction is the staged half of the two-phase confirm on destructive
// edits. It is a UX safety rail only; nothing is removed until Confirm.
type PendingAction interface{ pendingAction() }

type PendingClassRemoval struct {
	Day   string
	Index int
}

type PendingScheduleDeletion struct{}

func (PendingClassRemoval) pendingAction() {}

func (PendingScheduleDeletion) pendingAction() {}

// Confirmed reports what a Confirm call carried out so the caller can follow
// up (a schedule deletion still needs the remote delete issued).
type Confirmed struct {
	RemovedClass    *PendingClassRemoval
	DeletedSchedule string
}

// State is the whole editor as a value: the week, the header, the known ID
// set, and any staged destructive action. Every transition returns a new
// State and leaves the receiver untouched, so callers can hold snapshots.
type State struct {
	Header   Header
	Week     WeekSchedule
	KnownIDs []string
	Pending  PendingAction
}

// NewState starts an empty editor over the given set of already-saved IDs.
func NewState(knownIDs []string) State {
	return State{
		Week:     NewWeekSchedule(),
		KnownIDs: slices.Clone(knownIDs),
	}
}

// SetClassField applies one field edit through the day recalculator.
func (s State) SetClassField(day string, index int, field Field, value any) (State, error) {
	classes, ok := s.Week[day]
	if !ok {
		return s, fmt.Errorf("unknown weekday %q", day)
	}
	updated, err := ApplyEdit(classes, index, field, value)
	if err != nil {
		return s, err
	}
	return s.withDay(day, updated), nil
}

// SetInstructor normalizes a cleared instructor picker (nil) to an empty
// string before delegating to the regular field edit.
func (s State) SetInstructor(day string, index int, name *string) (State, error) {
	instructor := ""
	if name != nil {
		instructor = *name
	}
	return s.SetClassField(day, index, FieldInstructor, instructor)
}

// AddClass appends a new default class to the end of the day.
func (s State) AddClass(day string) (State, error) {
	classes, ok := s.Week[day]
	if !ok {
		return s, fmt.Errorf("unknown weekday %q", day)
	}
	return s.withDay(day, AddEntry(classes)), nil
}

// StageClassRemoval stages a class deletion for confirmation.
func (s State) StageClassRemoval(day string, index int) (State, error) {
	classes, ok := s.Week[day]
	if !ok {
		return s, fmt.Errorf("unknown weekday %q", day)
	}
	if index < 0 || index >= len(classes) {
		return s, fmt.Errorf("no class at index %d", index)
	}
	s.Pending = PendingClassRemoval{Day: day, Index: index}
	return s, nil
}

// StageScheduleDeletion stages deleting the currently loaded record.
func (s State) StageScheduleDeletion() (State, error) {
	if s.Header.SelectedID == "" {
		return s, ErrNothingSelected
	}
	s.Pending = PendingScheduleDeletion{}
	return s, nil
}

// CancelPending drops whatever was staged.
func (s State) CancelPending() State {
	s.Pending = nil
	return s
}

// Confirm executes the staged action. A confirmed class removal is applied
// in place; a confirmed schedule deletion resets the editor and hands the
// deleted ID back for the caller to issue remotely.
func (s State) Confirm() (State, Confirmed, error) {
	switch pending := s.Pending.(type) {
	case PendingClassRemoval:
		updated, err := RemoveEntry(s.Week[pending.Day], pending.Index)
		if err != nil {
			return s, Confirmed{}, err
		}
		next := s.withDay(pending.Day, updated)
		next.Pending = nil
		return next, Confirmed{RemovedClass: &pending}, nil
	case PendingScheduleDeletion:
		deletedID := s.Header.SelectedID
		next := NewState(s.KnownIDs)
		return next, Confirmed{DeletedSchedule: deletedID}, nil
	default:
		return s, Confirmed{}, ErrNoPendingAction
	}
}

// Header field names accepted by SetHeaderField, matching the form inputs.
const (
	HeaderUniversity = "university"
	HeaderProgram    = "program"
	HeaderSemester   = "semester"
	HeaderSection    = "section"
	HeaderName       = "Name"
	HeaderStartDate  = "Start_Date"
	HeaderEndDate    = "End_Date"
	HeaderSelectedID = "selectedID"
)

// SetHeaderField updates one metadata field and re-derives the composite ID:
// set whenever all four parts are present, cleared whenever any is missing.
func (s State) SetHeaderField(name string, value string) (State, error) {
	switch name {
	case HeaderUniversity:
		s.Header.University = value
	case HeaderProgram:
		s.Header.Program = value
	case HeaderSemester:
		s.Header.Semester = value
	case HeaderSection:
		s.Header.Section = value
	case HeaderName:
		s.Header.Name = value
	case HeaderStartDate:
		s.Header.StartDate = value
	case HeaderEndDate:
		s.Header.EndDate = value
	case HeaderSelectedID:
		s.Header.SelectedID = value
	default:
		return s, fmt.Errorf("unknown header field %q", name)
	}
	s.Header.ID = ComposeID(s.Header.University, s.Header.Program, s.Header.Semester, s.Header.Section)
	return s, nil
}

// ComposeID builds the composite schedule identifier, or "" when any part is
// missing.
func ComposeID(university, program, semester, section string) string {
	if university == "" || program == "" || semester == "" || section == "" {
		return ""
	}
	return strings.Join([]string{university, program, semester, section}, "-")
}

// Submit validates the editor and returns the snapshot to persist. A
// collision with a known ID is rejected here, before any network call, unless
// the submission updates the record that is currently loaded.
func (s State) Submit() (Record, error) {
	if s.Header.ID == "" {
		return Record{}, ErrIncompleteID
	}
	if slices.Contains(s.KnownIDs, s.Header.ID) && s.Header.SelectedID != s.Header.ID {
		return Record{}, ErrDuplicateID
	}
	return Record{
		ID:         s.Header.ID,
		Semester:   s.Header.Semester,
		Program:    s.Header.Program,
		Section:    s.Header.Section,
		University: s.Header.University,
		Name:       s.Header.Name,
		StartDate:  s.Header.StartDate,
		EndDate:    s.Header.EndDate,
		Week:       s.Week.Clone(),
	}, nil
}

// LoadRecord replaces the editor contents with a saved record, marking it as
// the selected one so re-submitting under the same ID counts as an update.
func (s State) LoadRecord(record Record) State {
	s.Header = Header{
		University: record.University,
		Program:    record.Program,
		Semester:   record.Semester,
		Section:    record.Section,
		Name:       record.Name,
		StartDate:  record.StartDate,
		EndDate:    record.EndDate,
		ID:         record.ID,
		SelectedID: record.ID,
	}
	week := record.Week.Clone()
	for _, day := range Weekdays {
		if _, ok := week[day]; !ok {
			week[day] = DaySchedule{}
		}
	}
	s.Week = week
	s.Pending = nil
	return s
}

// LoadWeek swaps in a whole week at once, as the PDF extraction flow does,
// keeping the header as is.
func (s State) LoadWeek(week WeekSchedule) State {
	loaded := week.Clone()
	for _, day := range Weekdays {
		if _, ok := loaded[day]; !ok {
			loaded[day] = DaySchedule{}
		}
	}
	s.Week = loaded
	return s
}

func (s State) withDay(day string, classes DaySchedule) State {
	week := make(WeekSchedule, len(s.Week))
	for name, existing := range s.Week {
		week[name] = existing
	}
	week[day] = classes
	s.Week = week
	return s
}
