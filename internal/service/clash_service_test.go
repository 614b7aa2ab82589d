package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type mockClashSessionRepo struct {
	sessions []models.Session
	err      error
}

func (m *mockClashSessionRepo) FindClashCandidates(_ context.Context, _ sqlx.ExtContext, day, lecturerID, roomID string, exclude models.Scope) ([]models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Session
	for _, s := range m.sessions {
		if exclude.ProgramName == s.ProgramName && exclude.Year == s.Year {
			continue
		}
		if (lecturerID != "" && s.LecturerID == lecturerID) || (roomID != "" && s.RoomID == roomID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func rosterRooms(ids ...string) *mockClassroomRepo {
	rooms := make(map[string]*models.Classroom, len(ids))
	for _, id := range ids {
		rooms[id] = &models.Classroom{RoomID: id, Capacity: 40}
	}
	return &mockClassroomRepo{rooms: rooms}
}

func schedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		DayStart:          "06:00:00",
		DayEnd:            "21:00:00",
		MinSlotMinutes:    30,
		MaxSessionMinutes: 120,
	}
}

func savedSession(id, course, lecturer, room, day, start, end string) models.Session {
	return models.Session{
		ID:          id,
		CourseID:    course,
		ProgramName: "Computer Science",
		Year:        2,
		LecturerID:  lecturer,
		RoomID:      room,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
	}
}

func TestCheckClashLecturerOverlap(t *testing.T) {
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Monday", "08:00:00", "10:00:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:   "CS202",
		LecturerID: "L1",
		RoomID:     "R2",
		DayOfWeek:  "Monday",
		StartTime:  "09:00:00",
		EndTime:    "11:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusFailure, resp.Status)
	assert.Contains(t, resp.Message, "L1")
}

func TestCheckClashNoOverlap(t *testing.T) {
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Monday", "08:00:00", "10:00:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:   "CS202",
		LecturerID: "L2",
		RoomID:     "R1",
		DayOfWeek:  "Monday",
		StartTime:  "10:00:00",
		EndTime:    "12:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, resp.Status)
}

func TestCheckClashRoomOverlap(t *testing.T) {
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Tuesday", "13:00:00", "15:00:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:   "MA101",
		LecturerID: "L2",
		RoomID:     "R1",
		DayOfWeek:  "Tuesday",
		StartTime:  "14:00:00",
		EndTime:    "15:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusFailure, resp.Status)
	assert.Contains(t, resp.Message, "classroom R1")
}

func TestCheckClashDifferentDay(t *testing.T) {
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Monday", "08:00:00", "10:00:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:   "CS202",
		LecturerID: "L1",
		RoomID:     "R1",
		DayOfWeek:  "Friday",
		StartTime:  "08:00:00",
		EndTime:    "10:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, resp.Status)
}

func TestCheckClashSelfExclusion(t *testing.T) {
	// Moving a session within its own window must not clash with its old row.
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "CS101", "L1", "R1", "Monday", "08:00:00", "10:00:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		ID:         "s1",
		CourseID:   "CS101",
		LecturerID: "L1",
		RoomID:     "R1",
		DayOfWeek:  "Monday",
		StartTime:  "09:00:00",
		EndTime:    "11:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, resp.Status)
}

func TestCheckClashUnassignedEntry(t *testing.T) {
	svc := NewClashService(&mockClashSessionRepo{}, rosterRooms(), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:  "CS202",
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Message, "no lecturer or classroom")
}

func TestCheckClashInvalidInterval(t *testing.T) {
	svc := NewClashService(&mockClashSessionRepo{}, rosterRooms(), schedulingConfig(), zap.NewNop())

	cases := []dto.ClashCheckEntry{
		{LecturerID: "L1", DayOfWeek: "Monday", StartTime: "11:00:00", EndTime: "09:00:00"},
		{LecturerID: "L1", DayOfWeek: "Monday", StartTime: "09:00:00", EndTime: "09:00:00"},
		{LecturerID: "L1", DayOfWeek: "Blursday", StartTime: "09:00:00", EndTime: "11:00:00"},
		{LecturerID: "L1", DayOfWeek: "Monday", StartTime: "9am", EndTime: "11:00:00"},
		{LecturerID: "L1", DayOfWeek: "Monday", StartTime: "09:00:00", EndTime: "13:00:00"},
	}
	for _, entry := range cases {
		_, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: entry})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestCheckClashPrefersLecturerDimension(t *testing.T) {
	// When the candidate collides with one session on the room axis and a
	// later one on the lecturer axis, the lecturer verdict wins.
	repo := &mockClashSessionRepo{sessions: []models.Session{
		savedSession("s1", "MA101", "L9", "R1", "Monday", "09:00:00", "10:00:00"),
		savedSession("s2", "PH101", "L1", "R9", "Monday", "09:30:00", "10:30:00"),
	}}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	resp, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		CourseID:   "CS202",
		LecturerID: "L1",
		RoomID:     "R1",
		DayOfWeek:  "Monday",
		StartTime:  "09:00:00",
		EndTime:    "11:00:00",
	}})
	require.NoError(t, err)
	assert.Equal(t, dto.StatusFailure, resp.Status)
	assert.Contains(t, resp.Message, "lecturer L1")
}

func TestCheckClashLockedClassroom(t *testing.T) {
	rooms := &mockClassroomRepo{rooms: map[string]*models.Classroom{
		"R1": {RoomID: "R1", Capacity: 40, Locked: true},
	}}
	svc := NewClashService(&mockClashSessionRepo{}, rooms, schedulingConfig(), zap.NewNop())

	_, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		LecturerID: "L1",
		RoomID:     "R1",
		DayOfWeek:  "Monday",
		StartTime:  "09:00:00",
		EndTime:    "11:00:00",
	}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "locked")
}

func TestCheckClashUnknownClassroom(t *testing.T) {
	svc := NewClashService(&mockClashSessionRepo{}, rosterRooms(), schedulingConfig(), zap.NewNop())

	_, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		RoomID:    "R404",
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
	}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCheckClashRepositoryError(t *testing.T) {
	repo := &mockClashSessionRepo{err: errors.New("connection refused")}
	svc := NewClashService(repo, rosterRooms("R1", "R2", "R9"), schedulingConfig(), zap.NewNop())

	_, err := svc.CheckClash(context.Background(), dto.ClashCheckRequest{Entry: dto.ClashCheckEntry{
		LecturerID: "L1",
		DayOfWeek:  "Monday",
		StartTime:  "09:00:00",
		EndTime:    "11:00:00",
	}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
