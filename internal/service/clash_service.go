package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type clashSessionRepository interface {
	FindClashCandidates(ctx context.Context, exec sqlx.ExtContext, day, lecturerID, roomID string, exclude models.Scope) ([]models.Session, error)
}

type clashClassroomRepository interface {
	FindByRoomID(ctx context.Context, exec sqlx.ExtContext, roomID string) (*models.Classroom, error)
}

// ClashService answers advisory clash checks for candidate placements. It is
// a pure read: persistence only happens on save, which re-runs the same rules
// authoritatively.
type ClashService struct {
	sessions    clashSessionRepository
	classrooms  clashClassroomRepository
	logger      *zap.Logger
	maxDuration models.ClockTime
}

// NewClashService instantiates ClashService.
func NewClashService(sessions clashSessionRepository, classrooms clashClassroomRepository, cfg config.SchedulingConfig, logger *zap.Logger) *ClashService {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxMinutes := cfg.MaxSessionMinutes
	if maxMinutes <= 0 {
		maxMinutes = 120
	}
	return &ClashService{
		sessions:    sessions,
		classrooms:  classrooms,
		logger:      logger,
		maxDuration: models.ClockTime(maxMinutes * 60),
	}
}

// CheckClash reports whether the candidate collides with any saved session
// sharing its lecturer or room. Lecturer and room uniqueness hold across every
// program and year, so the comparison is global, not per scope.
func (s *ClashService) CheckClash(ctx context.Context, req dto.ClashCheckRequest) (*dto.ClashCheckResponse, error) {
	entry := req.Entry

	iv, err := parseInterval(entry.DayOfWeek, entry.StartTime, entry.EndTime, s.maxDuration)
	if err != nil {
		return nil, err
	}

	if entry.LecturerID == "" && entry.RoomID == "" {
		return &dto.ClashCheckResponse{Status: dto.StatusSuccess, Message: "no lecturer or classroom assigned"}, nil
	}

	if entry.RoomID != "" {
		room, err := s.classrooms.FindByRoomID(ctx, nil, entry.RoomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown classroom %q", entry.RoomID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
		}
		if room.Locked {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("classroom %s is locked and excluded from scheduling", entry.RoomID))
		}
	}

	existing, err := s.sessions.FindClashCandidates(ctx, nil, iv.day, entry.LecturerID, entry.RoomID, models.Scope{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load saved sessions")
	}

	clash, err := firstClash(entry.ID, entry.LecturerID, entry.RoomID, iv, existing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt session data")
	}
	if clash != nil {
		s.logger.Debug("clash detected",
			zap.String("dimension", clash.Dimension),
			zap.String("candidate_id", entry.ID),
			zap.String("with", clash.With.ID),
		)
		return &dto.ClashCheckResponse{Status: dto.StatusFailure, Message: clash.Message}, nil
	}

	return &dto.ClashCheckResponse{Status: dto.StatusSuccess}, nil
}
