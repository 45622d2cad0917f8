package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

var (
	ErrInvalidTemplate = errors.New("invalid template")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidateTemplate checks every period before any visit is generated. An
// interval below 1 would make expansion non-terminating, so it is rejected
// up front rather than looped on.
func ValidateTemplate(template models.Template) error {
	if len(template.Periods) == 0 {
		return fmt.Errorf("%w: template %q has no periods", ErrInvalidTemplate, template.Name)
	}
	for i, period := range template.Periods {
		if period.Interval < 1 {
			return fmt.Errorf("%w: period %d has interval %d", ErrInvalidTemplate, i, period.Interval)
		}
		if period.StartDay < 0 {
			return fmt.Errorf("%w: period %d has negative start day %d", ErrInvalidTemplate, i, period.StartDay)
		}
		if period.EndDay < period.StartDay {
			return fmt.Errorf("%w: period %d ends on day %d before day %d", ErrInvalidTemplate, i, period.EndDay, period.StartDay)
		}
	}
	return nil
}

// GenerateVisits expands a template from an anchor start date into the
// concrete visit sequence. Each period is walked independently from its
// start day in interval steps, and periods are concatenated in template
// order; overlapping period ranges therefore emit the same calendar day
// more than once, matching the stored weekend counts of existing lines.
func GenerateVisits(startDate time.Time, template models.Template) ([]models.Visit, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}

	var visits []models.Visit
	for _, period := range template.Periods {
		for day := period.StartDay; day <= period.EndDay; day += period.Interval {
			date := startDate.AddDate(0, 0, day)
			visits = append(visits, models.Visit{
				Day:       day,
				Date:      date,
				IsWeekend: IsWeekend(date),
			})
		}
	}
	return visits, nil
}

func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

func CountWeekendVisits(visits []models.Visit) int {
	count := 0
	for _, visit := range visits {
		if visit.IsWeekend {
			count++
		}
	}
	return count
}
