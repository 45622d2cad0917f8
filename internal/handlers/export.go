package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	scheduleRepo repository.ScheduleRepository
}

func NewExportHandler(scheduleRepo repository.ScheduleRepository) *ExportHandler {
	return &ExportHandler{scheduleRepo: scheduleRepo}
}

// Schedules writes every active line's visits to a spreadsheet, one row
// per visit.
func (handler *ExportHandler) Schedules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active := models.ScheduleStatusActive
	schedules, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{Status: &active})
	if err != nil {
		slog.Error("finding schedules for export", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	f := excelize.NewFile()
	sheetName := "Schedules"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		slog.Error("creating export sheet", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Line", "Template", "Start Date", "Day", "Visit Date", "Weekend", "Assigned", "Memo"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	row := 2
	for _, schedule := range schedules {
		for _, visit := range schedule.Visits {
			weekendLabel := "weekday"
			if visit.IsWeekend {
				weekendLabel = "weekend"
			}
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), schedule.Name)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), schedule.TemplateName)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), schedule.StartDate.Format("2006-01-02"))
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), visit.Day)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), visit.Date.Format("2006-01-02"))
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), weekendLabel)
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), strings.Join(visit.AssignedPeople, ", "))
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), visit.Memo)
			row++
		}
	}

	fileName := fmt.Sprintf("organoid_schedules_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(w); err != nil {
		slog.Error("writing export", "error", err)
	}
}
