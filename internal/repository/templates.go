package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

const dateLayout = "2006-01-02"

type TemplateRepository interface {
	FindByName(ctx context.Context, name string) (models.Template, error)
	FindAll(ctx context.Context) ([]models.Template, error)
	Create(ctx context.Context, template models.Template) (models.Template, error)
	Delete(ctx context.Context, name string) error
	EnsureDefault(ctx context.Context, template models.Template) error
}

type SQLiteTemplateRepository struct {
	database *sql.DB
}

func NewTemplateRepository(database *sql.DB) *SQLiteTemplateRepository {
	return &SQLiteTemplateRepository{database: database}
}

func (repository *SQLiteTemplateRepository) FindByName(ctx context.Context, name string) (models.Template, error) {
	var template models.Template
	err := repository.database.QueryRowContext(ctx,
		"SELECT name, created_at FROM templates WHERE name = ?", name,
	).Scan(&template.Name, &template.CreatedAt)
	if err != nil {
		return models.Template{}, fmt.Errorf("finding template by name: %w", err)
	}

	periods, err := repository.findPeriods(ctx, name)
	if err != nil {
		return models.Template{}, err
	}
	template.Periods = periods
	return template, nil
}

func (repository *SQLiteTemplateRepository) FindAll(ctx context.Context) ([]models.Template, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT name, created_at FROM templates ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var template models.Template
		if err := rows.Scan(&template.Name, &template.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		periods, err := repository.findPeriods(ctx, templates[i].Name)
		if err != nil {
			return nil, err
		}
		templates[i].Periods = periods
	}
	return templates, nil
}

func (repository *SQLiteTemplateRepository) findPeriods(ctx context.Context, templateName string) ([]models.Period, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT start_day, end_day, interval FROM template_periods
		WHERE template_name = ? ORDER BY position`, templateName,
	)
	if err != nil {
		return nil, fmt.Errorf("finding template periods: %w", err)
	}
	defer rows.Close()

	var periods []models.Period
	for rows.Next() {
		var period models.Period
		if err := rows.Scan(&period.StartDay, &period.EndDay, &period.Interval); err != nil {
			return nil, fmt.Errorf("scanning template period: %w", err)
		}
		periods = append(periods, period)
	}
	return periods, rows.Err()
}

func (repository *SQLiteTemplateRepository) Create(ctx context.Context, template models.Template) (models.Template, error) {
	template.CreatedAt = time.Now()

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Template{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx,
		"INSERT INTO templates (name, created_at) VALUES (?, ?)",
		template.Name, template.CreatedAt,
	); err != nil {
		return models.Template{}, fmt.Errorf("inserting template: %w", err)
	}

	for position, period := range template.Periods {
		if _, err := transaction.ExecContext(ctx,
			`INSERT INTO template_periods (template_name, position, start_day, end_day, interval)
			VALUES (?, ?, ?, ?, ?)`,
			template.Name, position, period.StartDay, period.EndDay, period.Interval,
		); err != nil {
			return models.Template{}, fmt.Errorf("inserting template period: %w", err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return models.Template{}, fmt.Errorf("committing template: %w", err)
	}
	return template, nil
}

func (repository *SQLiteTemplateRepository) Delete(ctx context.Context, name string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

// EnsureDefault inserts the template if no template with its name exists
// yet. Used to seed the built-in Organoid cadence at startup.
func (repository *SQLiteTemplateRepository) EnsureDefault(ctx context.Context, template models.Template) error {
	_, err := repository.FindByName(ctx, template.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = repository.Create(ctx, template)
	return err
}
