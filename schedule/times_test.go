package schedule

import "testing"

func TestComputeEndTime(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		duration int
		count    int
		want     string
	}{
		{"single hour", "08:00", 60, 1, "09:00"},
		{"hour and a half", "08:00", 90, 1, "09:30"},
		{"double period", "09:00", 60, 2, "11:00"},
		{"minute carry", "10:45", 30, 1, "11:15"},
		{"zero duration falls back to default", "08:00", 0, 1, "09:00"},
		{"zero count falls back to default", "08:00", 60, 0, "09:00"},
		{"unparsable start falls back to default", "late", 60, 1, "09:00"},
		{"missing minute component", "08", 60, 1, "09:00"},
		{"no wrap past midnight", "23:30", 120, 1, "25:30"},
		{"long lab block", "13:00", 50, 3, "15:30"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeEndTime(c.start, c.duration, c.count)
			if got != c.want {
				t.Errorf("ComputeEndTime(%q, %d, %d) = %q, want %q",
					c.start, c.duration, c.count, got, c.want)
			}
		})
	}
}

func TestComputeEndTimeIsZeroPadded(t *testing.T) {
	got := ComputeEndTime("08:05", 1, 1)
	if got != "08:06" {
		t.Errorf("expected zero padded result, got %q", got)
	}
}
