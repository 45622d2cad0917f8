package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/testutil"
)

func TestTemplateRepository_CreateAndFindByName(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTemplateRepository(db)
	ctx := context.Background()

	template := models.Template{
		Name: "PDX",
		Periods: []models.Period{
			{StartDay: 0, EndDay: 6, Interval: 1},
			{StartDay: 7, EndDay: 30, Interval: 3},
		},
	}

	if _, err := repo.Create(ctx, template); err != nil {
		t.Fatalf("creating template: %v", err)
	}

	found, err := repo.FindByName(ctx, "PDX")
	if err != nil {
		t.Fatalf("finding template: %v", err)
	}
	if len(found.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(found.Periods))
	}
	// Periods come back in stored order.
	if found.Periods[0].StartDay != 0 || found.Periods[1].StartDay != 7 {
		t.Errorf("periods out of order: %+v", found.Periods)
	}
	if found.Periods[1].Interval != 3 {
		t.Errorf("expected interval 3, got %d", found.Periods[1].Interval)
	}
}

func TestTemplateRepository_DuplicateNameRejected(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTemplateRepository(db)
	ctx := context.Background()

	template := models.Template{
		Name:    "PDX",
		Periods: []models.Period{{StartDay: 0, EndDay: 6, Interval: 1}},
	}

	if _, err := repo.Create(ctx, template); err != nil {
		t.Fatalf("creating template: %v", err)
	}
	if _, err := repo.Create(ctx, template); err == nil {
		t.Error("expected duplicate template name to be rejected")
	}
}

func TestTemplateRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTemplateRepository(db)
	ctx := context.Background()

	template := models.Template{
		Name:    "PDX",
		Periods: []models.Period{{StartDay: 0, EndDay: 6, Interval: 1}},
	}
	if _, err := repo.Create(ctx, template); err != nil {
		t.Fatalf("creating template: %v", err)
	}

	if err := repo.Delete(ctx, "PDX"); err != nil {
		t.Fatalf("deleting template: %v", err)
	}

	if _, err := repo.FindByName(ctx, "PDX"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}

	// Periods cascade with the template.
	var count int
	db.QueryRow("SELECT COUNT(*) FROM template_periods").Scan(&count)
	if count != 0 {
		t.Errorf("expected periods to be removed with the template, found %d", count)
	}
}

func TestTemplateRepository_EnsureDefault(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTemplateRepository(db)
	ctx := context.Background()

	if err := repo.EnsureDefault(ctx, models.DefaultOrganoidTemplate()); err != nil {
		t.Fatalf("seeding default template: %v", err)
	}
	// Second run is a no-op, not a duplicate insert.
	if err := repo.EnsureDefault(ctx, models.DefaultOrganoidTemplate()); err != nil {
		t.Fatalf("re-seeding default template: %v", err)
	}

	found, err := repo.FindByName(ctx, models.DefaultTemplateName)
	if err != nil {
		t.Fatalf("finding default template: %v", err)
	}
	if len(found.Periods) != 5 {
		t.Errorf("expected 5 periods in the Organoid template, got %d", len(found.Periods))
	}
}
