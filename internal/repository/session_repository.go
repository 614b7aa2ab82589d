package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

const sessionColumns = `id, course_id, program_name, year, lecturer_id, room_id, day_of_week, start_time, end_time, created_at`

// SessionRepository owns the current session set of every timetable scope.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository builds repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByScope returns the scope's sessions ordered by day and start time.
func (r *SessionRepository) ListByScope(ctx context.Context, scope models.Scope) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE program_name = $1 AND year = $2 ORDER BY day_of_week ASC, start_time ASC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, scope.ProgramName, scope.Year); err != nil {
		return nil, fmt.Errorf("list sessions for scope %s: %w", scope, err)
	}
	return sessions, nil
}

// ListAll returns every saved session across scopes, for the read-only view.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY program_name ASC, year ASC, day_of_week ASC, start_time ASC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list all sessions: %w", err)
	}
	return sessions, nil
}

// ListByLecturer returns every saved session taught by the lecturer.
func (r *SessionRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE lecturer_id = $1`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, lecturerID); err != nil {
		return nil, fmt.Errorf("list sessions for lecturer %s: %w", lecturerID, err)
	}
	return sessions, nil
}

// ListByRoom returns every saved session held in the room.
func (r *SessionRepository) ListByRoom(ctx context.Context, roomID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE room_id = $1`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, roomID); err != nil {
		return nil, fmt.Errorf("list sessions for room %s: %w", roomID, err)
	}
	return sessions, nil
}

// FindClashCandidates returns saved sessions on the given day that reference
// the lecturer or the room, across every scope. Rows from the excluded scope
// are left out: during a save that scope is being replaced wholesale.
func (r *SessionRepository) FindClashCandidates(ctx context.Context, exec sqlx.ExtContext, day, lecturerID, roomID string, exclude models.Scope) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions
WHERE day_of_week = $1
  AND (($2 <> '' AND lecturer_id = $2) OR ($3 <> '' AND room_id = $3))
  AND NOT (program_name = $4 AND year = $5)`, sessionColumns)

	rows, err := r.exec(exec).QueryxContext(ctx, query, day, lecturerID, roomID, exclude.ProgramName, exclude.Year)
	if err != nil {
		return nil, fmt.Errorf("find clash candidates: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.StructScan(&s); err != nil {
			return nil, fmt.Errorf("scan clash candidate: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clash candidates: %w", err)
	}
	return sessions, nil
}

// ReplaceScope atomically swaps the scope's session set for the given batch.
// Callers must run it inside a scope transaction.
func (r *SessionRepository) ReplaceScope(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, sessions []models.Session) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM sessions WHERE program_name = $1 AND year = $2`, scope.ProgramName, scope.Year); err != nil {
		return fmt.Errorf("clear sessions for scope %s: %w", scope, err)
	}

	const insert = `
INSERT INTO sessions (id, course_id, program_name, year, lecturer_id, room_id, day_of_week, start_time, end_time, created_at)
VALUES (:id, :course_id, :program_name, :year, :lecturer_id, :room_id, :day_of_week, :start_time, :end_time, :created_at)`

	now := time.Now().UTC()
	for i := range sessions {
		s := &sessions[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, insert, s); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}
	return nil
}
