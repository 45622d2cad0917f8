package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
)

type ICalHandler struct {
	scheduleRepo repository.ScheduleRepository
}

func NewICalHandler(scheduleRepo repository.ScheduleRepository) *ICalHandler {
	return &ICalHandler{scheduleRepo: scheduleRepo}
}

// Feed publishes every active line's visits as all-day events, so the
// visit plan can be subscribed to from a phone calendar.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active := models.ScheduleStatusActive
	schedules, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{Status: &active})
	if err != nil {
		slog.Error("finding schedules for ical", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Organoid Schedule Manager//EN")
	cal.SetXWRCalName("Organoid Lines")

	now := time.Now()
	for _, schedule := range schedules {
		for _, visit := range schedule.Visits {
			event := cal.AddEvent(fmt.Sprintf("%s@organoid", visit.ID))
			event.SetDtStampTime(now)
			event.SetAllDayStartAt(visit.Date)
			event.SetAllDayEndAt(visit.Date.AddDate(0, 0, 1))

			summary := fmt.Sprintf("%s (D%d)", schedule.Name, visit.Day)
			if visit.IsWeekend {
				summary += " [weekend]"
			}
			event.SetSummary(summary)

			var details []string
			if len(visit.AssignedPeople) > 0 {
				details = append(details, "Assigned: "+strings.Join(visit.AssignedPeople, ", "))
			}
			if visit.Memo != "" {
				details = append(details, visit.Memo)
			}
			if len(details) > 0 {
				event.SetDescription(strings.Join(details, "\n"))
			}
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=organoid-lines.ics")
	w.Write([]byte(cal.Serialize()))
}
