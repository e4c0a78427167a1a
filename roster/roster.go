// Package roster derives the teacher roster from saved schedules. Instructor
// cells may hold several co-teaching names joined by "+"; each distinct name
// is lazily inserted under the (university, program) it was first seen with
// and never updated or deleted by this flow.
package roster

import (
	"context"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/globaltfn/remindme-server/schedule"
)

// Store is the slice of the persistence layer the deriver needs.
type Store interface {
	TeacherExists(ctx context.Context, name string) (bool, error)
	InsertTeacher(ctx context.Context, name, university, program string) error
}

// ExtractInstructors walks every weekday of the week and collects the unique,
// trimmed instructor names, sorted for stable output.
func ExtractInstructors(week schedule.WeekSchedule) []string {
	seen := make(map[string]struct{})
	for _, day := range schedule.Weekdays {
		for _, class := range week[day] {
			if class.Instructor == "" {
				continue
			}
			for _, name := range strings.Split(class.Instructor, "+") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Derive extracts the instructors of a just-saved week and upserts the unseen
// ones concurrently. Errors are logged and swallowed: roster derivation is a
// side effect of saving a schedule and must never fail the save.
func Derive(ctx context.Context, store Store, week schedule.WeekSchedule, university, program string) {
	names := ExtractInstructors(week)

	logger := log.WithFields(log.Fields{
		"university": university,
		"program":    program,
	})

	var eg errgroup.Group
	for _, name := range names {
		eg.Go(func() error {
			exists, err := store.TeacherExists(ctx, name)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			return store.InsertTeacher(ctx, name, university, program)
		})
	}
	if err := eg.Wait(); err != nil {
		logger.WithError(err).Error("error extracting teachers")
		return
	}
	logger.Infof("extracted and saved %d teachers", len(names))
}
