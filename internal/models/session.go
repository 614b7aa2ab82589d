package models

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Session is one scheduled class occurrence inside a (program, year) timetable.
// Times are 24-hour "HH:MM:SS" strings; DayOfWeek is an English weekday name.
// LecturerID and RoomID stay empty until the admin assigns them.
type Session struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	ProgramName string    `db:"program_name" json:"program_name"`
	Year        int       `db:"year" json:"year"`
	LecturerID  string    `db:"lecturer_id" json:"lecturer_id"`
	RoomID      string    `db:"room_id" json:"room_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Scope identifies one editable timetable.
type Scope struct {
	ProgramName string `json:"program_name"`
	Year        int    `json:"year"`
}

// String renders the scope as a stable key, also used for advisory locking.
func (s Scope) String() string {
	return fmt.Sprintf("%s/%d", s.ProgramName, s.Year)
}

// IsZero reports whether no scope was supplied.
func (s Scope) IsZero() bool {
	return s.ProgramName == "" && s.Year == 0
}

// Clash dimensions distinguish which shared resource collided.
const (
	ClashDimensionLecturer = "lecturer"
	ClashDimensionRoom     = "room"
)

// ClashError reports a candidate session colliding with a saved one. It is a
// business outcome, not a system failure: handlers translate it to a normal
// failure status.
type ClashError struct {
	Dimension string  `json:"dimension"`
	Message   string  `json:"message"`
	With      Session `json:"with"`
}

// Error implements the error interface.
func (e *ClashError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// TimetableVersion is an immutable snapshot of a scope's full session set,
// appended on every successful save. Entries holds the JSON-encoded sessions.
type TimetableVersion struct {
	ID          string         `db:"id" json:"id"`
	ProgramName string         `db:"program_name" json:"program_name"`
	Year        int            `db:"year" json:"year"`
	Version     int            `db:"version" json:"version"`
	Entries     types.JSONText `db:"entries" json:"entries"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Classroom is a schedulable room. Locked rooms are excluded from scheduling
// and slot suggestion.
type Classroom struct {
	RoomID   string `db:"room_id" json:"room_id"`
	Capacity int    `db:"capacity" json:"capacity"`
	Locked   bool   `db:"locked" json:"locked"`
}

// Lecturer is a teaching staff member referenced by sessions.
type Lecturer struct {
	UserID string `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}
