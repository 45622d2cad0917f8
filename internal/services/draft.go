package services

import (
	"fmt"

	"github.com/wnddl111/organoid/internal/models"
)

// TemplateDraft is a caller-owned work-in-progress template. The builder
// functions return updated copies and never share period slices, so a
// caller can hold several drafts or discard one without side effects.
type TemplateDraft struct {
	Name    string
	Periods []models.Period
}

func NewTemplateDraft(name string) TemplateDraft {
	return TemplateDraft{Name: name}
}

func AddPeriod(draft TemplateDraft, period models.Period) TemplateDraft {
	periods := make([]models.Period, 0, len(draft.Periods)+1)
	periods = append(periods, draft.Periods...)
	periods = append(periods, period)
	draft.Periods = periods
	return draft
}

func RemovePeriod(draft TemplateDraft, index int) TemplateDraft {
	if index < 0 || index >= len(draft.Periods) {
		return draft
	}
	periods := make([]models.Period, 0, len(draft.Periods)-1)
	periods = append(periods, draft.Periods[:index]...)
	periods = append(periods, draft.Periods[index+1:]...)
	draft.Periods = periods
	return draft
}

// BuildTemplate finalizes a draft, applying the same validation the
// generator enforces so an unbuildable draft is caught before storage.
func BuildTemplate(draft TemplateDraft) (models.Template, error) {
	if draft.Name == "" {
		return models.Template{}, fmt.Errorf("%w: template name is required", ErrInvalidArgument)
	}
	template := models.Template{
		Name:    draft.Name,
		Periods: append([]models.Period(nil), draft.Periods...),
	}
	if err := ValidateTemplate(template); err != nil {
		return models.Template{}, err
	}
	return template, nil
}
