package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/pcam/internal/db"
	"github.com/alexanderramin/pcam/internal/domain"
)

// SQLiteResultRepo implements ResultRepo using a SQLite database.
type SQLiteResultRepo struct {
	db db.DBTX
}

// NewSQLiteResultRepo creates a new SQLiteResultRepo.
func NewSQLiteResultRepo(conn db.DBTX) *SQLiteResultRepo {
	return &SQLiteResultRepo{db: conn}
}

const resultColumns = `id, catalog, completed_at, dominant, severity, imbalance_score, parameter_count, payload`

func (r *SQLiteResultRepo) Create(ctx context.Context, rec *domain.AssessmentRecord) error {
	catalog := rec.Catalog
	if catalog == "" {
		catalog = "default"
	}
	query := `INSERT INTO assessment_results (` + resultColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		catalog,
		formatTime(rec.CompletedAt),
		string(rec.Dominant),
		string(rec.Severity),
		rec.ImbalanceScore,
		rec.ParameterCount,
		string(rec.Payload),
	)
	if err != nil {
		return fmt.Errorf("inserting assessment result: %w", err)
	}
	return nil
}

func (r *SQLiteResultRepo) GetByID(ctx context.Context, id string) (*domain.AssessmentRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM assessment_results WHERE id = ?`
	rec, err := scanResult(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment result: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning assessment result: %w", err)
	}
	return rec, nil
}

// List returns results newest first. A non-positive limit returns all.
func (r *SQLiteResultRepo) List(ctx context.Context, limit int) ([]*domain.AssessmentRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM assessment_results ORDER BY completed_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assessment results: %w", err)
	}
	defer rows.Close()

	var out []*domain.AssessmentRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.AssessmentRecord, error) {
	var rec domain.AssessmentRecord
	var completedAt, dominant, severity, payload string
	err := row.Scan(
		&rec.ID, &rec.Catalog, &completedAt, &dominant, &severity,
		&rec.ImbalanceScore, &rec.ParameterCount, &payload,
	)
	if err != nil {
		return nil, err
	}
	rec.CompletedAt = parseTime(completedAt)
	rec.Dominant = domain.Category(dominant)
	rec.Severity = domain.Severity(severity)
	rec.Payload = []byte(payload)
	return &rec, nil
}
