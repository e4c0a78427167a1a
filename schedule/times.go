package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultStartTime = "08:00"
	DefaultDuration  = 60
	DefaultCount     = 1
)

// ComputeEndTime adds duration*count minutes to an HH:MM start time. Zero or
// negative duration/count fall back to the defaults, as does an unparsable
// start, which is how the frontend treated half-filled rows.
//
// The hour component is intentionally not wrapped at 24: a class pushed past
// midnight renders as e.g. "25:30". Stored schedules depend on the current
// rendering, so the non-wrapping arithmetic is the contract.
func ComputeEndTime(start string, durationMinutes int, repeatCount int) string {
	hours, minutes, ok := parseClock(start)
	if !ok {
		hours, minutes, _ = parseClock(DefaultStartTime)
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultDuration
	}
	if repeatCount <= 0 {
		repeatCount = DefaultCount
	}

	totalMinutes := hours*60 + minutes + durationMinutes*repeatCount
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

func parseClock(value string) (hours int, minutes int, ok bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minutes, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return hours, minutes, true
}
