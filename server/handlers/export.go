package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/globaltfn/remindme-server/data/db"
	"github.com/globaltfn/remindme-server/schedule"
)

var exportHeader = []string{
	"Period", "Start Time", "End Time", "Course", "Instructor",
	"Building", "Room", "Group", "Duration (min)", "Count", "Type",
}

// ExportSchedule renders a saved schedule as an xlsx workbook with one sheet
// per weekday.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
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

	workbook, err := buildWorkbook(row.Week)
	if err != nil {
		respondMessage(w, 500, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", row.ID+".xlsx"))
	if err := workbook.Write(w); err != nil {
		log.WithError(err).Warn("error writing xlsx export")
	}
}

func buildWorkbook(week schedule.WeekSchedule) (*excelize.File, error) {
	workbook := excelize.NewFile()

	for i, day := range schedule.Weekdays {
		if i == 0 {
			workbook.SetSheetName(workbook.GetSheetName(0), day)
		} else {
			if _, err := workbook.NewSheet(day); err != nil {
				return nil, err
			}
		}

		header := make([]any, len(exportHeader))
		for c, title := range exportHeader {
			header[c] = title
		}
		if err := workbook.SetSheetRow(day, "A1", &header); err != nil {
			return nil, err
		}

		for n, class := range week[day] {
			cell, err := excelize.CoordinatesToCellName(1, n+2)
			if err != nil {
				return nil, err
			}
			values := []any{
				class.Period,
				class.StartTime,
				class.EndTime,
				class.CourseName,
				class.Instructor,
				class.Building,
				class.Room,
				string(class.Group),
				class.Duration,
				class.Count,
				string(class.Type),
			}
			if err := workbook.SetSheetRow(day, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	return workbook, nil
}
