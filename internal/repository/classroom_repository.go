package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ClassroomRepository reads the classroom roster. Roster management belongs to
// an external admin tool; this API only consumes it.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository builds repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

func (r *ClassroomRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns all classrooms ordered by room code.
func (r *ClassroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT room_id, capacity, locked FROM classrooms ORDER BY room_id ASC`
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

// FindByRoomID returns one classroom; sql.ErrNoRows when unknown.
func (r *ClassroomRepository) FindByRoomID(ctx context.Context, exec sqlx.ExtContext, roomID string) (*models.Classroom, error) {
	const query = `SELECT room_id, capacity, locked FROM classrooms WHERE room_id = $1`
	var room models.Classroom
	if err := sqlx.GetContext(ctx, r.exec(exec), &room, query, roomID); err != nil {
		return nil, err
	}
	return &room, nil
}
