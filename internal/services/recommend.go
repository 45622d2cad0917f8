package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

// RecommendStartDates evaluates every start date in the window
// [baseDate, baseDate+windowDays) and returns the full candidate list
// ranked best-first. Ranking minimizes weekend visits, then maximizes
// shared visit days with existing lines so the lab is visited on fewer
// distinct days overall. The sort is stable, so candidates tied on both
// keys stay in chronological order.
func RecommendStartDates(baseDate time.Time, windowDays int, template models.Template, existing []models.Schedule) ([]models.Candidate, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d days", ErrInvalidArgument, windowDays)
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		date := baseDate.AddDate(0, 0, i)
		visits, err := GenerateVisits(date, template)
		if err != nil {
			return nil, err
		}

		overlaps := FindOverlaps(visits, existing)
		total := 0
		for _, count := range overlaps {
			total += count
		}

		candidates = append(candidates, models.Candidate{
			Date:         date,
			WeekendCount: CountWeekendVisits(visits),
			OverlapTotal: total,
			Overlaps:     overlaps,
			Visits:       visits,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].WeekendCount != candidates[j].WeekendCount {
			return candidates[i].WeekendCount < candidates[j].WeekendCount
		}
		return candidates[i].OverlapTotal > candidates[j].OverlapTotal
	})

	return candidates, nil
}
