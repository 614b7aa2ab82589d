package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type mockSuggestSessionRepo struct {
	byLecturer []models.Session
	byRoom     []models.Session
}

func (m *mockSuggestSessionRepo) ListByLecturer(_ context.Context, _ string) ([]models.Session, error) {
	return m.byLecturer, nil
}

func (m *mockSuggestSessionRepo) ListByRoom(_ context.Context, _ string) ([]models.Session, error) {
	return m.byRoom, nil
}

type mockClassroomRepo struct {
	rooms map[string]*models.Classroom
}

func (m *mockClassroomRepo) FindByRoomID(_ context.Context, _ sqlx.ExtContext, roomID string) (*models.Classroom, error) {
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return room, nil
}

func slotsForDay(slots []dto.Slot, day string) []dto.Slot {
	var out []dto.Slot
	for _, s := range slots {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}

func TestSuggestSlotsLecturerGaps(t *testing.T) {
	sessions := &mockSuggestSessionRepo{byLecturer: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Monday", "08:00:00", "10:00:00"),
		savedSession("s2", "CS102", "L1", "R2", "Monday", "12:00:00", "14:00:00"),
	}}
	svc := NewSuggestService(sessions, &mockClassroomRepo{}, schedulingConfig(), zap.NewNop())

	resp, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{LecturerID: "L1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	monday := slotsForDay(resp.SuggestedSlots, "Monday")
	require.Len(t, monday, 3)
	assert.Equal(t, dto.Slot{Day: "Monday", StartTime: "06:00:00", EndTime: "08:00:00", Duration: 120}, monday[0])
	assert.Equal(t, dto.Slot{Day: "Monday", StartTime: "10:00:00", EndTime: "12:00:00", Duration: 120}, monday[1])
	assert.Equal(t, dto.Slot{Day: "Monday", StartTime: "14:00:00", EndTime: "21:00:00", Duration: 420}, monday[2])

	// Days with no sessions are one whole free window.
	tuesday := slotsForDay(resp.SuggestedSlots, "Tuesday")
	require.Len(t, tuesday, 1)
	assert.Equal(t, 900, tuesday[0].Duration)
}

func TestSuggestSlotsIntersection(t *testing.T) {
	// A window counts only when lecturer and room are both free.
	sessions := &mockSuggestSessionRepo{
		byLecturer: []models.Session{
			savedSession("s1", "CS101", "L1", "R9", "Monday", "06:00:00", "12:00:00"),
		},
		byRoom: []models.Session{
			savedSession("s2", "MA101", "L9", "R1", "Monday", "14:00:00", "21:00:00"),
		},
	}
	rooms := &mockClassroomRepo{rooms: map[string]*models.Classroom{
		"R1": {RoomID: "R1", Capacity: 40},
	}}
	svc := NewSuggestService(sessions, rooms, schedulingConfig(), zap.NewNop())

	resp, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{LecturerID: "L1", RoomID: "R1"})
	require.NoError(t, err)

	monday := slotsForDay(resp.SuggestedSlots, "Monday")
	require.Len(t, monday, 1)
	assert.Equal(t, "12:00:00", monday[0].StartTime)
	assert.Equal(t, "14:00:00", monday[0].EndTime)
}

func TestSuggestSlotsMinimumLength(t *testing.T) {
	// A 20 minute gap between back to back sessions is below the minimum
	// viable session length and must be dropped.
	sessions := &mockSuggestSessionRepo{byLecturer: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Wednesday", "06:00:00", "10:00:00"),
		savedSession("s2", "CS102", "L1", "R1", "Wednesday", "10:20:00", "21:00:00"),
	}}
	svc := NewSuggestService(sessions, &mockClassroomRepo{}, schedulingConfig(), zap.NewNop())

	resp, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{LecturerID: "L1"})
	require.NoError(t, err)
	assert.Empty(t, slotsForDay(resp.SuggestedSlots, "Wednesday"))
}

func TestSuggestSlotsFullyBooked(t *testing.T) {
	byLecturer := make([]models.Session, 0, len(models.Weekdays))
	for i, day := range models.Weekdays {
		byLecturer = append(byLecturer,
			savedSession("s"+day, "CS10"+string(rune('0'+i)), "L1", "R1", day, "06:00:00", "21:00:00"))
	}
	svc := NewSuggestService(&mockSuggestSessionRepo{byLecturer: byLecturer}, &mockClassroomRepo{}, schedulingConfig(), zap.NewNop())

	resp, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{LecturerID: "L1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.SuggestedSlots)
	assert.Empty(t, resp.SuggestedSlots)
}

func TestSuggestSlotsUnknownRoom(t *testing.T) {
	svc := NewSuggestService(&mockSuggestSessionRepo{}, &mockClassroomRepo{}, schedulingConfig(), zap.NewNop())

	_, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{RoomID: "R404"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSuggestSlotsLockedRoom(t *testing.T) {
	rooms := &mockClassroomRepo{rooms: map[string]*models.Classroom{
		"R1": {RoomID: "R1", Capacity: 40, Locked: true},
	}}
	svc := NewSuggestService(&mockSuggestSessionRepo{}, rooms, schedulingConfig(), zap.NewNop())

	_, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{RoomID: "R1"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "locked")
}

func TestSuggestSlotsMissingSubject(t *testing.T) {
	svc := NewSuggestService(&mockSuggestSessionRepo{}, &mockClassroomRepo{}, schedulingConfig(), zap.NewNop())

	_, err := svc.SuggestSlots(context.Background(), dto.SlotSuggestionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFreeGapsOverlappingBusy(t *testing.T) {
	busy := [][2]models.ClockTime{
		{8 * 3600, 11 * 3600},
		{10 * 3600, 12 * 3600},
		{9 * 3600, 10 * 3600},
	}
	gaps := freeGaps(busy, models.ClockTime(6*3600), models.ClockTime(21*3600))
	require.Len(t, gaps, 2)
	assert.Equal(t, [2]models.ClockTime{6 * 3600, 8 * 3600}, gaps[0])
	assert.Equal(t, [2]models.ClockTime{12 * 3600, 21 * 3600}, gaps[1])
}
