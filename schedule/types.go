// Package schedule holds the in-memory week editor: the class entry model,
// the per-day time cascade, and the reducer style editor state. Everything in
// this package is pure; persistence and transport live elsewhere.
package schedule

// ClassType matches the enum stored in saved schedule documents.
type ClassType string

const (
	ClassTheory  ClassType = "Theory"
	ClassLab     ClassType = "Lab"
	ClassExtra   ClassType = "Extra"
	ClassSeminar ClassType = "Seminar"
	ClassFree    ClassType = "Free"
)

type GroupType string

const (
	GroupOne GroupType = "Group 1"
	GroupTwo GroupType = "Group 2"
	GroupAll GroupType = "All"
)

// Weekdays is the fixed editing order. Sunday is deliberately not schedulable.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// ClassEntry is one scheduled session. The JSON names are the wire format the
// existing frontend and stored documents use, so they cannot change.
type ClassEntry struct {
	Period     int       `json:"Period"`
	StartTime  string    `json:"Start_Time"`
	EndTime    string    `json:"End_Time"`
	CourseName string    `json:"Course_Name"`
	Instructor string    `json:"Instructor"`
	Building   string    `json:"Building"`
	Room       string    `json:"Room"`
	Group      GroupType `json:"Group"`
	Duration   int       `json:"Class_Duration"`
	Count      int       `json:"Class_Count"`
	Type       ClassType `json:"Class_type"`
}

// DaySchedule is the ordered list of classes for one weekday. Order is
// chronological and contiguous: each entry starts when its predecessor ends,
// and Period is always index+1.
type DaySchedule []ClassEntry

// WeekSchedule maps each weekday name to its day list. Serialized as the
// `schedule` object of a schedule document.
type WeekSchedule map[string]DaySchedule

// NewWeekSchedule returns an empty week with every weekday present, matching
// the shape the frontend initializes.
func NewWeekSchedule() WeekSchedule {
	week := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		week[day] = DaySchedule{}
	}
	return week
}

// Clone deep-copies the week so snapshots handed out by the editor can never
// alias its internal state.
func (w WeekSchedule) Clone() WeekSchedule {
	cloned := make(WeekSchedule, len(w))
	for day, classes := range w {
		copied := make(DaySchedule, len(classes))
		copy(copied, classes)
		cloned[day] = copied
	}
	return cloned
}
