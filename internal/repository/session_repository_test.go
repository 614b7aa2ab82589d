package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func sessionRows(sessions ...models.Session) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "course_id", "program_name", "year", "lecturer_id", "room_id",
		"day_of_week", "start_time", "end_time", "created_at",
	})
	for _, s := range sessions {
		rows.AddRow(s.ID, s.CourseID, s.ProgramName, s.Year, s.LecturerID, s.RoomID,
			s.DayOfWeek, s.StartTime, s.EndTime, s.CreatedAt)
	}
	return rows
}

func TestSessionRepositoryListByScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, program_name, year, lecturer_id, room_id, day_of_week, start_time, end_time, created_at FROM sessions WHERE program_name = $1 AND year = $2`)).
		WithArgs("Computer Science", 2).
		WillReturnRows(sessionRows(models.Session{
			ID: "s1", CourseID: "CS101", ProgramName: "Computer Science", Year: 2,
			LecturerID: "L1", RoomID: "R1", DayOfWeek: "Monday",
			StartTime: "08:00:00", EndTime: "10:00:00", CreatedAt: time.Now(),
		}))

	sessions, err := repo.ListByScope(context.Background(), models.Scope{ProgramName: "Computer Science", Year: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "08:00:00", sessions[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindClashCandidates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM sessions\s+WHERE day_of_week = \$1`).
		WithArgs("Monday", "L1", "R1", "Computer Science", 2).
		WillReturnRows(sessionRows(
			models.Session{ID: "m1", CourseID: "MA101", ProgramName: "Mathematics", Year: 1,
				LecturerID: "L1", RoomID: "R9", DayOfWeek: "Monday",
				StartTime: "09:00:00", EndTime: "11:00:00", CreatedAt: time.Now()},
		))

	sessions, err := repo.FindClashCandidates(context.Background(), nil,
		"Monday", "L1", "R1", models.Scope{ProgramName: "Computer Science", Year: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Mathematics", sessions[0].ProgramName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindClashCandidatesEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM sessions\s+WHERE day_of_week = \$1`).
		WithArgs("Friday", "L9", "", "", 0).
		WillReturnRows(sessionRows())

	sessions, err := repo.FindClashCandidates(context.Background(), nil, "Friday", "L9", "", models.Scope{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryReplaceScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE program_name = $1 AND year = $2`)).
		WithArgs("Computer Science", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReplaceScope(context.Background(), nil,
		models.Scope{ProgramName: "Computer Science", Year: 2},
		[]models.Session{{
			CourseID: "CS101", ProgramName: "Computer Science", Year: 2,
			LecturerID: "L1", RoomID: "R1", DayOfWeek: "Monday",
			StartTime: "08:00:00", EndTime: "10:00:00",
		}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryReplaceScopeEmptyBatchClearsOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE program_name = $1 AND year = $2`)).
		WithArgs("Computer Science", 2).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.ReplaceScope(context.Background(), nil,
		models.Scope{ProgramName: "Computer Science", Year: 2}, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
