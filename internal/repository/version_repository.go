package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// VersionRepository tracks per-scope timetable snapshots and the current
// version pointer. Versions are numbered from 1; a pointer of 0 means the
// scope has never been saved.
type VersionRepository struct {
	db *sqlx.DB
}

// NewVersionRepository builds repository.
func NewVersionRepository(db *sqlx.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

func (r *VersionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CurrentPointer returns the scope's version pointer, 0 when unset.
func (r *VersionRepository) CurrentPointer(ctx context.Context, exec sqlx.ExtContext, scope models.Scope) (int, error) {
	const query = `SELECT current_version FROM timetable_pointers WHERE program_name = $1 AND year = $2`
	var pointer int
	err := sqlx.GetContext(ctx, r.exec(exec), &pointer, query, scope.ProgramName, scope.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version pointer for scope %s: %w", scope, err)
	}
	return pointer, nil
}

// SetPointer moves the scope's version pointer.
func (r *VersionRepository) SetPointer(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, version int) error {
	const query = `
INSERT INTO timetable_pointers (program_name, year, current_version)
VALUES ($1, $2, $3)
ON CONFLICT (program_name, year) DO UPDATE SET current_version = EXCLUDED.current_version`
	if _, err := r.exec(exec).ExecContext(ctx, query, scope.ProgramName, scope.Year, version); err != nil {
		return fmt.Errorf("set version pointer for scope %s: %w", scope, err)
	}
	return nil
}

// LatestVersion returns the highest recorded version number, 0 when none.
func (r *VersionRepository) LatestVersion(ctx context.Context, exec sqlx.ExtContext, scope models.Scope) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) FROM timetable_versions WHERE program_name = $1 AND year = $2`
	var latest int
	if err := sqlx.GetContext(ctx, r.exec(exec), &latest, query, scope.ProgramName, scope.Year); err != nil {
		return 0, fmt.Errorf("read latest version for scope %s: %w", scope, err)
	}
	return latest, nil
}

// Append records a new snapshot, discarding any forward history at or beyond
// its number. A save from a rolled-back state therefore truncates the stale
// branch (linear undo history).
func (r *VersionRepository) Append(ctx context.Context, exec sqlx.ExtContext, version *models.TimetableVersion) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx,
		`DELETE FROM timetable_versions WHERE program_name = $1 AND year = $2 AND version >= $3`,
		version.ProgramName, version.Year, version.Version,
	); err != nil {
		return fmt.Errorf("truncate forward versions: %w", err)
	}

	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	const insert = `
INSERT INTO timetable_versions (id, program_name, year, version, entries, created_at)
VALUES (:id, :program_name, :year, :version, :entries, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insert, version); err != nil {
		return fmt.Errorf("append timetable version: %w", err)
	}
	return nil
}

// GetVersion loads one snapshot by number.
func (r *VersionRepository) GetVersion(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, number int) (*models.TimetableVersion, error) {
	const query = `SELECT id, program_name, year, version, entries, created_at
FROM timetable_versions WHERE program_name = $1 AND year = $2 AND version = $3`
	var version models.TimetableVersion
	if err := sqlx.GetContext(ctx, r.exec(exec), &version, query, scope.ProgramName, scope.Year, number); err != nil {
		return nil, fmt.Errorf("load timetable version %d for scope %s: %w", number, scope, err)
	}
	return &version, nil
}
