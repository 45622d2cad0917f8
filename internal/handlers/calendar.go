package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/services"
)

const (
	defaultCalendarDays = 30
	maxCalendarDays     = 60
)

type CalendarHandler struct {
	scheduleRepo repository.ScheduleRepository
}

func NewCalendarHandler(scheduleRepo repository.ScheduleRepository) *CalendarHandler {
	return &CalendarHandler{scheduleRepo: scheduleRepo}
}

type calendarVisit struct {
	ScheduleName string `json:"schedule_name"`
	Day          int    `json:"day"`
}

type calendarDay struct {
	Date      string          `json:"date"`
	Weekday   string          `json:"weekday"`
	IsWeekend bool            `json:"is_weekend"`
	Visits    []calendarVisit `json:"visits,omitempty"`
}

type calendarWeek struct {
	Start string        `json:"start"`
	End   string        `json:"end"`
	Days  []calendarDay `json:"days"`
}

// View lays the active lines' visits onto a day grid grouped into weeks
// of seven, starting at the requested date.
func (handler *CalendarHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start := time.Now().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}

	days := defaultCalendarDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	if days > maxCalendarDays {
		days = maxCalendarDays
	}

	active := models.ScheduleStatusActive
	schedules, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{Status: &active})
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	end := start.AddDate(0, 0, days)
	visitsByDate := make(map[string][]calendarVisit)
	for _, schedule := range schedules {
		for _, visit := range schedule.Visits {
			if visit.Date.Before(start) || !visit.Date.Before(end) {
				continue
			}
			key := services.DateKey(visit.Date)
			visitsByDate[key] = append(visitsByDate[key], calendarVisit{
				ScheduleName: schedule.Name,
				Day:          visit.Day,
			})
		}
	}

	var weeks []calendarWeek
	for weekStart := start; weekStart.Before(end); weekStart = weekStart.AddDate(0, 0, 7) {
		week := calendarWeek{
			Start: services.DateKey(weekStart),
			End:   services.DateKey(weekStart.AddDate(0, 0, 6)),
		}
		for i := 0; i < 7; i++ {
			date := weekStart.AddDate(0, 0, i)
			key := services.DateKey(date)
			week.Days = append(week.Days, calendarDay{
				Date:      key,
				Weekday:   date.Weekday().String(),
				IsWeekend: services.IsWeekend(date),
				Visits:    visitsByDate[key],
			})
		}
		weeks = append(weeks, week)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"start": services.DateKey(start),
		"days":  days,
		"weeks": weeks,
	})
}
