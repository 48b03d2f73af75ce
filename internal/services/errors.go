package services

import (
	"errors"
	"fmt"

	"github.com/rlemos/roombook/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("services: not found")
	// ErrNotOwner is returned when someone other than the organizer tries
	// to modify or cancel a meeting.
	ErrNotOwner = errors.New("services: only the organizer may do this")
)

// ValidationError covers missing or malformed input: absent fields, bad
// dates, end before start, unknown rooms or participants.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RoomConflictError carries the meetings that collide with the candidate
// interval once the room buffer is applied.
type RoomConflictError struct {
	Conflicts []models.Meeting
}

func (e *RoomConflictError) Error() string { return "room is already booked for this time" }

// ParticipantConflictError lists every requested participant that is busy
// during the candidate interval. The rejection is all-or-nothing.
type ParticipantConflictError struct {
	Unavailable []models.User
}

func (e *ParticipantConflictError) Error() string { return "participants are not available" }
