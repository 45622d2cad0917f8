package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wnddl111/organoid/internal/models"
)

type ScheduleFilter struct {
	Status *models.ScheduleStatus
}

type ScheduleRepository interface {
	FindByName(ctx context.Context, name string) (models.Schedule, error)
	FindAll(ctx context.Context, filter ScheduleFilter) ([]models.Schedule, error)
	Create(ctx context.Context, schedule models.Schedule) (models.Schedule, error)
	Complete(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
	UpdateVisit(ctx context.Context, scheduleName string, visit models.Visit) error
}

type SQLiteScheduleRepository struct {
	database *sql.DB
}

func NewScheduleRepository(database *sql.DB) *SQLiteScheduleRepository {
	return &SQLiteScheduleRepository{database: database}
}

func (repository *SQLiteScheduleRepository) FindByName(ctx context.Context, name string) (models.Schedule, error) {
	var schedule models.Schedule
	var startDate string
	err := repository.database.QueryRowContext(ctx,
		`SELECT name, template_name, start_date, status, weekend_count, created_at
		FROM schedules WHERE name = ?`, name,
	).Scan(&schedule.Name, &schedule.TemplateName, &startDate, &schedule.Status, &schedule.WeekendCount, &schedule.CreatedAt)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("finding schedule by name: %w", err)
	}

	schedule.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("parsing schedule start date: %w", err)
	}

	visits, err := repository.findVisits(ctx, name)
	if err != nil {
		return models.Schedule{}, err
	}
	schedule.Visits = visits
	return schedule, nil
}

func (repository *SQLiteScheduleRepository) FindAll(ctx context.Context, filter ScheduleFilter) ([]models.Schedule, error) {
	query := `SELECT name, template_name, start_date, status, weekend_count, created_at
	FROM schedules WHERE 1=1`

	var args []interface{}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY start_date, name"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		var schedule models.Schedule
		var startDate string
		if err := rows.Scan(&schedule.Name, &schedule.TemplateName, &startDate, &schedule.Status, &schedule.WeekendCount, &schedule.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		if schedule.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
			return nil, fmt.Errorf("parsing schedule start date: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schedules {
		visits, err := repository.findVisits(ctx, schedules[i].Name)
		if err != nil {
			return nil, err
		}
		schedules[i].Visits = visits
	}
	return schedules, nil
}

func (repository *SQLiteScheduleRepository) findVisits(ctx context.Context, scheduleName string) ([]models.Visit, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, day, date, is_weekend, memo, protocol_day
		FROM visits WHERE schedule_name = ? ORDER BY position`, scheduleName,
	)
	if err != nil {
		return nil, fmt.Errorf("finding visits: %w", err)
	}
	defer rows.Close()

	var visits []models.Visit
	for rows.Next() {
		var visit models.Visit
		var date string
		if err := rows.Scan(&visit.ID, &visit.Day, &date, &visit.IsWeekend, &visit.Memo, &visit.ProtocolDay); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		if visit.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parsing visit date: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range visits {
		people, err := repository.findVisitPeople(ctx, visits[i].ID)
		if err != nil {
			return nil, err
		}
		visits[i].AssignedPeople = people
	}
	return visits, nil
}

func (repository *SQLiteScheduleRepository) findVisitPeople(ctx context.Context, visitID string) ([]string, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT person_name FROM visit_people WHERE visit_id = ? ORDER BY person_name", visitID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding visit people: %w", err)
	}
	defer rows.Close()

	var people []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning visit person: %w", err)
		}
		people = append(people, name)
	}
	return people, rows.Err()
}

// Create persists a schedule and its generated visits in one transaction;
// the record becomes active atomically with its visit list.
func (repository *SQLiteScheduleRepository) Create(ctx context.Context, schedule models.Schedule) (models.Schedule, error) {
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusActive
	}
	schedule.CreatedAt = time.Now()

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx,
		`INSERT INTO schedules (name, template_name, start_date, status, weekend_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		schedule.Name, schedule.TemplateName, schedule.StartDate.Format(dateLayout),
		schedule.Status, schedule.WeekendCount, schedule.CreatedAt,
	); err != nil {
		return models.Schedule{}, fmt.Errorf("inserting schedule: %w", err)
	}

	for position := range schedule.Visits {
		visit := &schedule.Visits[position]
		if visit.ID == "" {
			visit.ID = uuid.New().String()
		}
		if _, err := transaction.ExecContext(ctx,
			`INSERT INTO visits (id, schedule_name, position, day, date, is_weekend, memo, protocol_day)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			visit.ID, schedule.Name, position, visit.Day, visit.Date.Format(dateLayout),
			visit.IsWeekend, visit.Memo, visit.ProtocolDay,
		); err != nil {
			return models.Schedule{}, fmt.Errorf("inserting visit: %w", err)
		}
		for _, person := range visit.AssignedPeople {
			if _, err := transaction.ExecContext(ctx,
				"INSERT INTO visit_people (visit_id, person_name) VALUES (?, ?)",
				visit.ID, person,
			); err != nil {
				return models.Schedule{}, fmt.Errorf("inserting visit person: %w", err)
			}
		}
	}

	if err := transaction.Commit(); err != nil {
		return models.Schedule{}, fmt.Errorf("committing schedule: %w", err)
	}
	return schedule, nil
}

// Complete marks a schedule completed. The transition is one-way; there is
// no reopen.
func (repository *SQLiteScheduleRepository) Complete(ctx context.Context, name string) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE schedules SET status = ? WHERE name = ?",
		models.ScheduleStatusCompleted, name,
	)
	if err != nil {
		return fmt.Errorf("completing schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking completed schedule: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("completing schedule: %w", sql.ErrNoRows)
	}
	return nil
}

func (repository *SQLiteScheduleRepository) Delete(ctx context.Context, name string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM schedules WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return nil
}

// UpdateVisit rewrites a visit's memo, protocol reference and assigned
// people. The schedule's cached weekend_count is left as computed at
// creation time.
func (repository *SQLiteScheduleRepository) UpdateVisit(ctx context.Context, scheduleName string, visit models.Visit) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		"UPDATE visits SET memo = ?, protocol_day = ? WHERE id = ? AND schedule_name = ?",
		visit.Memo, visit.ProtocolDay, visit.ID, scheduleName,
	)
	if err != nil {
		return fmt.Errorf("updating visit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated visit: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("updating visit: %w", sql.ErrNoRows)
	}

	if _, err := transaction.ExecContext(ctx,
		"DELETE FROM visit_people WHERE visit_id = ?", visit.ID,
	); err != nil {
		return fmt.Errorf("clearing visit people: %w", err)
	}
	for _, person := range visit.AssignedPeople {
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO visit_people (visit_id, person_name) VALUES (?, ?)",
			visit.ID, person,
		); err != nil {
			return fmt.Errorf("inserting visit person: %w", err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing visit update: %w", err)
	}
	return nil
}
