package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

type PersonRepository interface {
	FindByName(ctx context.Context, name string) (models.Person, error)
	FindAll(ctx context.Context) ([]models.Person, error)
	Create(ctx context.Context, person models.Person) (models.Person, error)
	Delete(ctx context.Context, name string) error
}

type SQLitePersonRepository struct {
	database *sql.DB
}

func NewPersonRepository(database *sql.DB) *SQLitePersonRepository {
	return &SQLitePersonRepository{database: database}
}

func (repository *SQLitePersonRepository) FindByName(ctx context.Context, name string) (models.Person, error) {
	var person models.Person
	err := repository.database.QueryRowContext(ctx,
		"SELECT name, note, created_at FROM people WHERE name = ?", name,
	).Scan(&person.Name, &person.Note, &person.CreatedAt)
	if err != nil {
		return models.Person{}, fmt.Errorf("finding person by name: %w", err)
	}
	return person, nil
}

// FindAll returns people in creation order. A person's index in this list
// is their stable ordinal, used for consistent visual tagging of visit
// assignments.
func (repository *SQLitePersonRepository) FindAll(ctx context.Context) ([]models.Person, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT name, note, created_at FROM people ORDER BY created_at, name",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var person models.Person
		if err := rows.Scan(&person.Name, &person.Note, &person.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		people = append(people, person)
	}
	return people, rows.Err()
}

func (repository *SQLitePersonRepository) Create(ctx context.Context, person models.Person) (models.Person, error) {
	person.CreatedAt = time.Now()
	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO people (name, note, created_at) VALUES (?, ?, ?)",
		person.Name, person.Note, person.CreatedAt,
	)
	if err != nil {
		return models.Person{}, fmt.Errorf("creating person: %w", err)
	}
	return person, nil
}

// Delete removes the person record only. Visit assignments keep the bare
// name and go stale, which consumers treat as "unassigned".
func (repository *SQLitePersonRepository) Delete(ctx context.Context, name string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM people WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return nil
}
