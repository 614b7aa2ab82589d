package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// LecturerRepository reads the lecturer roster.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository builds repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// List returns all lecturers ordered by name.
func (r *LecturerRepository) List(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT user_id, name FROM lecturers ORDER BY name ASC`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}
