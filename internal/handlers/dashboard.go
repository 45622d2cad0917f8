package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/services"
)

type DashboardHandler struct {
	scheduleRepo repository.ScheduleRepository
}

func NewDashboardHandler(scheduleRepo repository.ScheduleRepository) *DashboardHandler {
	return &DashboardHandler{scheduleRepo: scheduleRepo}
}

// Stats summarizes the active lines: how many are running, how many
// visits remain, and how many fall in the coming week.
func (handler *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active := models.ScheduleStatusActive
	schedules, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{Status: &active})
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	today := services.DateKey(time.Now())
	weekFromNow := services.DateKey(time.Now().AddDate(0, 0, 7))

	remainingVisits := 0
	upcomingWeek := 0
	weekendRemaining := 0
	for _, schedule := range schedules {
		for _, visit := range schedule.Visits {
			date := services.DateKey(visit.Date)
			if date < today {
				continue
			}
			remainingVisits++
			if visit.IsWeekend {
				weekendRemaining++
			}
			if date <= weekFromNow {
				upcomingWeek++
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_lines":      len(schedules),
		"remaining_visits":  remainingVisits,
		"next_7_days":       upcomingWeek,
		"weekend_remaining": weekendRemaining,
	})
}
