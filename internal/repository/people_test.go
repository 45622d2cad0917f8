package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/testutil"
)

func TestPersonRepository_CreateAndList(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewPersonRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, models.Person{Name: "Jihye", Note: "PI"}); err != nil {
		t.Fatalf("creating person: %v", err)
	}
	if _, err := repo.Create(ctx, models.Person{Name: "Minsu"}); err != nil {
		t.Fatalf("creating person: %v", err)
	}

	people, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("listing people: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	// Creation order gives each person a stable ordinal.
	if people[0].Name != "Jihye" || people[1].Name != "Minsu" {
		t.Errorf("expected creation order, got %v", people)
	}
}

func TestPersonRepository_DuplicateNameRejected(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewPersonRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, models.Person{Name: "Jihye"}); err != nil {
		t.Fatalf("creating person: %v", err)
	}
	if _, err := repo.Create(ctx, models.Person{Name: "Jihye"}); err == nil {
		t.Error("expected duplicate person name to be rejected")
	}
}

func TestPersonRepository_DeleteLeavesVisitAssignments(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	personRepo := repository.NewPersonRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	ctx := context.Background()

	if _, err := personRepo.Create(ctx, models.Person{Name: "Jihye"}); err != nil {
		t.Fatalf("creating person: %v", err)
	}

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	schedule := createTestSchedule(t, scheduleRepo, "Line_A", start)
	visit := schedule.Visits[0]
	visit.AssignedPeople = []string{"Jihye"}
	if err := scheduleRepo.UpdateVisit(ctx, "Line_A", visit); err != nil {
		t.Fatalf("assigning person: %v", err)
	}

	if err := personRepo.Delete(ctx, "Jihye"); err != nil {
		t.Fatalf("deleting person: %v", err)
	}

	// The assignment is a weak reference and survives the deletion.
	found, err := scheduleRepo.FindByName(ctx, "Line_A")
	if err != nil {
		t.Fatalf("finding schedule: %v", err)
	}
	if len(found.Visits[0].AssignedPeople) != 1 || found.Visits[0].AssignedPeople[0] != "Jihye" {
		t.Errorf("expected dangling assignment to remain, got %v", found.Visits[0].AssignedPeople)
	}
}
