package services

import (
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

const dateLayout = "2006-01-02"

// FindOverlaps reports, per non-completed schedule, how many distinct
// calendar dates the candidate visits share with that schedule's visits.
// Comparison is on calendar dates only, not day offsets: two lines overlap
// whenever site visits fall on the same day, whatever day each line is on.
// Schedules with no shared dates are omitted from the report.
func FindOverlaps(candidates []models.Visit, existing []models.Schedule) map[string]int {
	candidateDates := distinctDates(candidates)

	overlaps := make(map[string]int)
	for _, schedule := range existing {
		if schedule.Status == models.ScheduleStatusCompleted {
			continue
		}
		count := 0
		for date := range distinctDates(schedule.Visits) {
			if candidateDates[date] {
				count++
			}
		}
		if count > 0 {
			overlaps[schedule.Name] = count
		}
	}
	return overlaps
}

func distinctDates(visits []models.Visit) map[string]bool {
	dates := make(map[string]bool, len(visits))
	for _, visit := range visits {
		dates[visit.Date.Format(dateLayout)] = true
	}
	return dates
}

// DateKey normalizes a timestamp to its calendar date string, the same key
// overlap detection uses.
func DateKey(date time.Time) string {
	return date.Format(dateLayout)
}
