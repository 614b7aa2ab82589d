package service

import (
	"context"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type rosterLecturerRepository interface {
	List(ctx context.Context) ([]models.Lecturer, error)
}

type rosterClassroomRepository interface {
	List(ctx context.Context) ([]models.Classroom, error)
}

// RosterService serves the read-only lecturer and classroom lists backing the
// client's assignment dropdowns.
type RosterService struct {
	lecturers  rosterLecturerRepository
	classrooms rosterClassroomRepository
}

// NewRosterService instantiates RosterService.
func NewRosterService(lecturers rosterLecturerRepository, classrooms rosterClassroomRepository) *RosterService {
	return &RosterService{lecturers: lecturers, classrooms: classrooms}
}

// Lecturers lists all lecturers.
func (s *RosterService) Lecturers(ctx context.Context) ([]models.Lecturer, error) {
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	if lecturers == nil {
		lecturers = []models.Lecturer{}
	}
	return lecturers, nil
}

// Classrooms lists all classrooms including their locked flag.
func (s *RosterService) Classrooms(ctx context.Context) ([]models.Classroom, error) {
	classrooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	if classrooms == nil {
		classrooms = []models.Classroom{}
	}
	return classrooms, nil
}
