package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wnddl111/organoid/internal/models"
)

// ProtocolRepository stores protocols keyed by (template name, day
// offset). The key is a typed pair, never a stringified day.
type ProtocolRepository interface {
	Find(ctx context.Context, templateName string, day int) (models.Protocol, error)
	FindByTemplate(ctx context.Context, templateName string) ([]models.Protocol, error)
	Upsert(ctx context.Context, protocol models.Protocol) error
	Delete(ctx context.Context, templateName string, day int) error
}

type SQLiteProtocolRepository struct {
	database *sql.DB
}

func NewProtocolRepository(database *sql.DB) *SQLiteProtocolRepository {
	return &SQLiteProtocolRepository{database: database}
}

func (repository *SQLiteProtocolRepository) Find(ctx context.Context, templateName string, day int) (models.Protocol, error) {
	var protocol models.Protocol
	err := repository.database.QueryRowContext(ctx,
		"SELECT template_name, day, title, body FROM protocols WHERE template_name = ? AND day = ?",
		templateName, day,
	).Scan(&protocol.TemplateName, &protocol.Day, &protocol.Title, &protocol.Body)
	if err != nil {
		return models.Protocol{}, fmt.Errorf("finding protocol: %w", err)
	}
	return protocol, nil
}

func (repository *SQLiteProtocolRepository) FindByTemplate(ctx context.Context, templateName string) ([]models.Protocol, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT template_name, day, title, body FROM protocols WHERE template_name = ? ORDER BY day",
		templateName,
	)
	if err != nil {
		return nil, fmt.Errorf("finding protocols: %w", err)
	}
	defer rows.Close()

	var protocols []models.Protocol
	for rows.Next() {
		var protocol models.Protocol
		if err := rows.Scan(&protocol.TemplateName, &protocol.Day, &protocol.Title, &protocol.Body); err != nil {
			return nil, fmt.Errorf("scanning protocol: %w", err)
		}
		protocols = append(protocols, protocol)
	}
	return protocols, rows.Err()
}

func (repository *SQLiteProtocolRepository) Upsert(ctx context.Context, protocol models.Protocol) error {
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO protocols (template_name, day, title, body) VALUES (?, ?, ?, ?)
		ON CONFLICT(template_name, day) DO UPDATE SET title = excluded.title, body = excluded.body`,
		protocol.TemplateName, protocol.Day, protocol.Title, protocol.Body,
	)
	if err != nil {
		return fmt.Errorf("upserting protocol: %w", err)
	}
	return nil
}

func (repository *SQLiteProtocolRepository) Delete(ctx context.Context, templateName string, day int) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM protocols WHERE template_name = ? AND day = ?", templateName, day,
	)
	if err != nil {
		return fmt.Errorf("deleting protocol: %w", err)
	}
	return nil
}
