package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type suggestSessionRepository interface {
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.Session, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.Session, error)
}

type suggestClassroomRepository interface {
	FindByRoomID(ctx context.Context, exec sqlx.ExtContext, roomID string) (*models.Classroom, error)
}

// SuggestService enumerates free windows in the teaching week for a lecturer,
// a room, or both. With both supplied a window qualifies only when both are
// free (the busy sets are merged before taking the complement).
type SuggestService struct {
	sessions   suggestSessionRepository
	classrooms suggestClassroomRepository
	logger     *zap.Logger

	dayStart models.ClockTime
	dayEnd   models.ClockTime
	minSlot  models.ClockTime
}

// NewSuggestService instantiates SuggestService. Malformed window bounds in
// the config fall back to the 06:00-21:00 teaching day.
func NewSuggestService(sessions suggestSessionRepository, classrooms suggestClassroomRepository, cfg config.SchedulingConfig, logger *zap.Logger) *SuggestService {
	if logger == nil {
		logger = zap.NewNop()
	}

	dayStart, err := models.ParseClock(cfg.DayStart)
	if err != nil {
		logger.Warn("invalid TEACHING_DAY_START, using 06:00:00", zap.Error(err))
		dayStart = models.ClockTime(6 * 3600)
	}
	dayEnd, err := models.ParseClock(cfg.DayEnd)
	if err != nil || dayEnd <= dayStart {
		logger.Warn("invalid TEACHING_DAY_END, using 21:00:00", zap.String("value", cfg.DayEnd))
		dayEnd = models.ClockTime(21 * 3600)
	}

	minMinutes := cfg.MinSlotMinutes
	if minMinutes <= 0 {
		minMinutes = 30
	}

	return &SuggestService{
		sessions:   sessions,
		classrooms: classrooms,
		logger:     logger,
		dayStart:   dayStart,
		dayEnd:     dayEnd,
		minSlot:    models.ClockTime(minMinutes * 60),
	}
}

// SuggestSlots returns every free gap of at least the minimum viable session
// length, day by day. Gaps are reported whole: the duration field carries the
// full gap length in minutes even beyond the standard session duration. No
// availability is success with an empty list.
func (s *SuggestService) SuggestSlots(ctx context.Context, req dto.SlotSuggestionRequest) (*dto.SlotSuggestionResponse, error) {
	if req.LecturerID == "" && req.RoomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a lecturer or classroom is required")
	}

	var busy []models.Session

	if req.LecturerID != "" {
		sessions, err := s.sessions.ListByLecturer(ctx, req.LecturerID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer sessions")
		}
		busy = append(busy, sessions...)
	}

	if req.RoomID != "" {
		room, err := s.classrooms.FindByRoomID(ctx, nil, req.RoomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown classroom %q", req.RoomID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
		}
		if room.Locked {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("classroom %s is locked and excluded from scheduling", req.RoomID))
		}

		sessions, err := s.sessions.ListByRoom(ctx, req.RoomID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room sessions")
		}
		busy = append(busy, sessions...)
	}

	byDay, err := busyIntervalsByDay(busy, s.dayStart, s.dayEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt session data")
	}

	slots := make([]dto.Slot, 0)
	for _, day := range models.Weekdays {
		for _, gap := range freeGaps(byDay[day], s.dayStart, s.dayEnd) {
			if gap[1]-gap[0] < s.minSlot {
				continue
			}
			slots = append(slots, dto.Slot{
				Day:       day,
				StartTime: gap[0].String(),
				EndTime:   gap[1].String(),
				Duration:  (gap[1] - gap[0]).Minutes(),
			})
		}
	}

	return &dto.SlotSuggestionResponse{Success: true, SuggestedSlots: slots}, nil
}

// busyIntervalsByDay clips each session to the teaching window and groups the
// results per weekday.
func busyIntervalsByDay(sessions []models.Session, dayStart, dayEnd models.ClockTime) (map[string][][2]models.ClockTime, error) {
	byDay := make(map[string][][2]models.ClockTime)
	for _, session := range sessions {
		start, err := models.ParseClock(session.StartTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt start_time on session %s: %w", session.ID, err)
		}
		end, err := models.ParseClock(session.EndTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt end_time on session %s: %w", session.ID, err)
		}

		if start < dayStart {
			start = dayStart
		}
		if end > dayEnd {
			end = dayEnd
		}
		if end <= start {
			continue
		}
		byDay[session.DayOfWeek] = append(byDay[session.DayOfWeek], [2]models.ClockTime{start, end})
	}
	return byDay, nil
}

// freeGaps computes the complement of the union of busy intervals within the
// daily window.
func freeGaps(busy [][2]models.ClockTime, dayStart, dayEnd models.ClockTime) [][2]models.ClockTime {
	sort.Slice(busy, func(i, j int) bool { return busy[i][0] < busy[j][0] })

	var gaps [][2]models.ClockTime
	cursor := dayStart
	for _, b := range busy {
		if b[0] > cursor {
			gaps = append(gaps, [2]models.ClockTime{cursor, b[0]})
		}
		if b[1] > cursor {
			cursor = b[1]
		}
	}
	if cursor < dayEnd {
		gaps = append(gaps, [2]models.ClockTime{cursor, dayEnd})
	}
	return gaps
}
