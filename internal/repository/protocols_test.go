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

func TestProtocolRepository_UpsertAndFind(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProtocolRepository(db)
	ctx := context.Background()

	protocol := models.Protocol{
		TemplateName: "Organoid",
		Day:          0,
		Title:        "Seeding",
		Body:         "Thaw matrigel on ice before plating.",
	}
	if err := repo.Upsert(ctx, protocol); err != nil {
		t.Fatalf("upserting protocol: %v", err)
	}

	found, err := repo.Find(ctx, "Organoid", 0)
	if err != nil {
		t.Fatalf("finding protocol: %v", err)
	}
	if found.Title != "Seeding" {
		t.Errorf("expected title 'Seeding', got '%s'", found.Title)
	}

	// Upsert on the same (template, day) key replaces, not duplicates.
	protocol.Title = "Seeding v2"
	if err := repo.Upsert(ctx, protocol); err != nil {
		t.Fatalf("re-upserting protocol: %v", err)
	}
	updated, err := repo.Find(ctx, "Organoid", 0)
	if err != nil {
		t.Fatalf("finding updated protocol: %v", err)
	}
	if updated.Title != "Seeding v2" {
		t.Errorf("expected updated title, got '%s'", updated.Title)
	}

	all, err := repo.FindByTemplate(ctx, "Organoid")
	if err != nil {
		t.Fatalf("listing protocols: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 protocol, got %d", len(all))
	}
}

func TestProtocolRepository_MissingDayIsNotFound(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProtocolRepository(db)

	_, err := repo.Find(context.Background(), "Organoid", 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestProtocolRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProtocolRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, models.Protocol{TemplateName: "Organoid", Day: 4, Title: "Passage"}); err != nil {
		t.Fatalf("upserting protocol: %v", err)
	}
	if err := repo.Delete(ctx, "Organoid", 4); err != nil {
		t.Fatalf("deleting protocol: %v", err)
	}
	if _, err := repo.Find(ctx, "Organoid", 4); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}
