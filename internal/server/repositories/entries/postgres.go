// Package entries provides the PostgreSQL-backed repository for diary pages.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/dbx"
	"github.com/dmitrijs2005/swapdiary/internal/server/models"
)

const entryColumns = `id, author_id, author_role, title, body, preview, mood, image_key,
	date_label, day_label, month_label, time_label, created_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a fully populated entry. The caller assigns ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.AuthorID, e.AuthorRole, e.Title, e.Body, e.Preview, e.Mood, e.ImageKey,
		e.DateLabel, e.DayLabel, e.MonthLabel, e.TimeLabel, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

// GetByID returns common.ErrNotFound when no row matches.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// ListByAuthor returns the author's entries, newest first.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE author_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, authorID)
}

// ListByRole returns every entry written under role, newest first.
func (r *PostgresRepository) ListByRole(ctx context.Context, role string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE author_role = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, role)
}

// Delete removes the entry only if authorID wrote it. A miss on either
// condition yields common.ErrNotFound; callers that need to tell the two
// apart look the row up first.
func (r *PostgresRepository) Delete(ctx context.Context, id, authorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	e := &models.Entry{}
	err := s.Scan(&e.ID, &e.AuthorID, &e.AuthorRole, &e.Title, &e.Body, &e.Preview, &e.Mood, &e.ImageKey,
		&e.DateLabel, &e.DayLabel, &e.MonthLabel, &e.TimeLabel, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
