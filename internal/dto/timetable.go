package dto

import "github.com/noah-isme/timetable-api/internal/models"

// Status values returned by timetable operations. Business rejections (clash,
// locked editing, version boundary) travel as statuses, never as HTTP errors.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusLocked  = "locked"
)

// ClashCheckEntry is the candidate session the admin is about to place. When
// ID matches a saved session (a move), that session is excluded from the
// comparison.
type ClashCheckEntry struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	LecturerID string `json:"lecturer_id"`
	RoomID     string `json:"room_id"`
	DayOfWeek  string `json:"day_of_week" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
}

// ClashCheckRequest mirrors the client's POST /clash_detect body.
type ClashCheckRequest struct {
	Entry ClashCheckEntry `json:"entry"`
}

// ClashCheckResponse reports the advisory verdict.
type ClashCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SlotSuggestionRequest asks for free windows. The client sends the room code
// under the legacy "class" field. At least one of the two must be present.
type SlotSuggestionRequest struct {
	LecturerID string `json:"lecturer_id"`
	RoomID     string `json:"class"`
}

// Slot is one free window. Duration is the full gap length in minutes; gaps
// are never capped, so a slot may exceed the standard two-hour session.
type Slot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
}

// SlotSuggestionResponse lists free windows. No availability is success with
// an empty list; messaging is left to the client.
type SlotSuggestionResponse struct {
	Success        bool   `json:"success"`
	SuggestedSlots []Slot `json:"suggested_slots"`
	Message        string `json:"message,omitempty"`
}

// SaveEntry is one session within a batch save. Every field is required: an
// incomplete entry rejects the whole batch.
type SaveEntry struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id" validate:"required"`
	LecturerID string `json:"lecturer_id" validate:"required"`
	RoomID     string `json:"room_id" validate:"required"`
	DayOfWeek  string `json:"day_of_week" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
}

// SaveTimetableRequest atomically replaces a scope's session set.
type SaveTimetableRequest struct {
	ProgramName string      `json:"program_name" validate:"required"`
	Year        int         `json:"year" validate:"required"`
	Entries     []SaveEntry `json:"entries" validate:"required,min=1,dive"`
}

// SaveTimetableResponse reports the save outcome.
type SaveTimetableResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// FetchTimetableResponse returns the session set at the scope's current
// version pointer.
type FetchTimetableResponse struct {
	Status  string           `json:"status"`
	Entries []models.Session `json:"entries"`
	Message string           `json:"message,omitempty"`
}

// StatusResponse is the minimal acknowledgement for lock and release.
type StatusResponse struct {
	Status string `json:"status"`
}

// LockStatusResponse reports the edit-lock state.
type LockStatusResponse struct {
	Status string `json:"status"`
	Locked bool   `json:"locked"`
}

// LecturerListResponse backs the client's assignment dropdown.
type LecturerListResponse struct {
	Status    string            `json:"status"`
	Lecturers []models.Lecturer `json:"lecturers"`
}

// ClassroomListResponse backs the client's classroom dropdown.
type ClassroomListResponse struct {
	Status     string             `json:"status"`
	Classrooms []models.Classroom `json:"classrooms"`
}
