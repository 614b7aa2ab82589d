package service

import (
	"fmt"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// interval is a validated day/time window of a candidate session.
type interval struct {
	day   string
	start models.ClockTime
	end   models.ClockTime
}

// parseInterval validates the day and time fields shared by clash checks and
// saves. Zero-duration and inverted ranges are validation failures, never
// clashes.
func parseInterval(day, startRaw, endRaw string, maxDuration models.ClockTime) (*interval, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", day))
	}

	start, err := models.ParseClock(startRaw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_time")
	}
	end, err := models.ParseClock(endRaw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_time")
	}

	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if maxDuration > 0 && end-start > maxDuration {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("session exceeds the maximum duration of %d minutes", maxDuration.Minutes()))
	}

	return &interval{day: day, start: start, end: end}, nil
}

// firstClash compares the candidate against saved sessions on the lecturer and
// room axes independently, using the half-open overlap rule. The candidate's
// own persisted row (same ID) is skipped so moving a session never clashes
// with itself. Sessions missing a lecturer or room cannot clash on that axis.
// A lecturer clash anywhere in the set outranks a room clash, so the whole set
// is scanned before a room verdict is returned.
func firstClash(candidateID, lecturerID, roomID string, iv *interval, existing []models.Session) (*models.ClashError, error) {
	var roomClash *models.ClashError

	for _, other := range existing {
		if other.ID == candidateID || other.DayOfWeek != iv.day {
			continue
		}

		otherStart, err := models.ParseClock(other.StartTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt start_time on session %s: %w", other.ID, err)
		}
		otherEnd, err := models.ParseClock(other.EndTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt end_time on session %s: %w", other.ID, err)
		}

		if !models.Overlaps(iv.start, iv.end, otherStart, otherEnd) {
			continue
		}

		if lecturerID != "" && other.LecturerID == lecturerID {
			return &models.ClashError{
				Dimension: models.ClashDimensionLecturer,
				Message: fmt.Sprintf("lecturer %s already teaches %s on %s %s-%s",
					lecturerID, other.CourseID, other.DayOfWeek, other.StartTime, other.EndTime),
				With: other,
			}, nil
		}
		if roomClash == nil && roomID != "" && other.RoomID == roomID {
			roomClash = &models.ClashError{
				Dimension: models.ClashDimensionRoom,
				Message: fmt.Sprintf("classroom %s already hosts %s on %s %s-%s",
					roomID, other.CourseID, other.DayOfWeek, other.StartTime, other.EndTime),
				With: other,
			}
		}
	}
	return roomClash, nil
}
