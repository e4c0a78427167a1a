package schedule

import "fmt"

// Field names an editable ClassEntry attribute. The values are the wire names
// so a field coming straight out of a frontend event needs no translation.
type Field string

const (
	FieldStartTime  Field = "Start_Time"
	FieldCourseName Field = "Course_Name"
	FieldInstructor Field = "Instructor"
	FieldBuilding   Field = "Building"
	FieldRoom       Field = "Room"
	FieldGroup      Field = "Group"
	FieldDuration   Field = "Class_Duration"
	FieldCount      Field = "Class_Count"
	FieldType       Field = "Class_type"
)

// ApplyEdit sets one field of the entry at index and returns a new day list
// with times re-derived; the input day is never mutated.
//
// When the edit touches the start time, duration, or repeat count, the edited
// entry's end time is recomputed first. Every later entry is then pulled
// forward in a single left-to-right pass: its start becomes the previous
// entry's (already updated) end, and its own end is recomputed from its
// existing duration and count. Entries before index are untouched, so
// contiguity is only restored from the edit point onward.
func ApplyEdit(day DaySchedule, index int, field Field, value any) (DaySchedule, error) {
	if index < 0 || index >= len(day) {
		return nil, fmt.Errorf("no class at index %d", index)
	}

	updated := make(DaySchedule, len(day))
	copy(updated, day)

	entry := updated[index]
	if err := setField(&entry, field, value); err != nil {
		return nil, err
	}

	if field == FieldStartTime || field == FieldDuration || field == FieldCount {
		entry.EndTime = ComputeEndTime(entry.StartTime, entry.Duration, entry.Count)
	}
	updated[index] = entry

	for i := index + 1; i < len(updated); i++ {
		updated[i].StartTime = updated[i-1].EndTime
		updated[i].EndTime = ComputeEndTime(updated[i].StartTime, updated[i].Duration, updated[i].Count)
	}

	return updated, nil
}

// AddEntry appends a fresh class starting where the last one ends, or at the
// default start time on an empty day. Nothing after it exists, so no cascade.
func AddEntry(day DaySchedule) DaySchedule {
	startTime := DefaultStartTime
	if len(day) > 0 {
		startTime = day[len(day)-1].EndTime
	}

	updated := make(DaySchedule, len(day), len(day)+1)
	copy(updated, day)
	return append(updated, ClassEntry{
		Period:    len(day) + 1,
		StartTime: startTime,
		EndTime:   ComputeEndTime(startTime, DefaultDuration, DefaultCount),
		Group:     GroupAll,
		Duration:  DefaultDuration,
		Count:     DefaultCount,
		Type:      ClassTheory,
	})
}

// RemoveEntry drops the entry at index and renumbers the remaining periods to
// 1..N. Start times of later entries are left as they were, so a gap opens up
// against the new predecessor; the frontend behaved the same way and saved
// schedules reflect it, so the non-cascading removal is kept deliberately.
func RemoveEntry(day DaySchedule, index int) (DaySchedule, error) {
	if index < 0 || index >= len(day) {
		return nil, fmt.Errorf("no class at index %d", index)
	}

	updated := make(DaySchedule, 0, len(day)-1)
	for i, entry := range day {
		if i == index {
			continue
		}
		entry.Period = len(updated) + 1
		updated = append(updated, entry)
	}
	return updated, nil
}

func setField(entry *ClassEntry, field Field, value any) error {
	switch field {
	case FieldStartTime, FieldCourseName, FieldInstructor, FieldBuilding, FieldRoom:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string, got %T", field, value)
		}
		switch field {
		case FieldStartTime:
			entry.StartTime = text
		case FieldCourseName:
			entry.CourseName = text
		case FieldInstructor:
			entry.Instructor = text
		case FieldBuilding:
			entry.Building = text
		case FieldRoom:
			entry.Room = text
		}
	case FieldGroup:
		switch v := value.(type) {
		case GroupType:
			entry.Group = v
		case string:
			entry.Group = GroupType(v)
		default:
			return fmt.Errorf("field %s expects a group, got %T", field, value)
		}
	case FieldType:
		switch v := value.(type) {
		case ClassType:
			entry.Type = v
		case string:
			entry.Type = ClassType(v)
		default:
			return fmt.Errorf("field %s expects a class type, got %T", field, value)
		}
	case FieldDuration, FieldCount:
		number, ok := toInt(value)
		if !ok {
			return fmt.Errorf("field %s expects an integer, got %T", field, value)
		}
		if field == FieldDuration {
			entry.Duration = number
		} else {
			entry.Count = number
		}
	default:
		return fmt.Errorf("unknown class field %q", field)
	}
	return nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		// json decoding hands numbers over as float64
		return int(v), true
	}
	return 0, false
}
