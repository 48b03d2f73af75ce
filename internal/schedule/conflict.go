// Package schedule holds the pure conflict predicates for room bookings.
// Functions here take snapshots of persisted meetings and never touch the
// store themselves.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/rlemos/roombook/internal/models"
)

// RoomBuffer is the margin kept clear around every room booking. It applies
// only to room conflicts, never to participant availability.
const RoomBuffer = 10 * time.Minute

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// RoomConflicts returns the meetings whose raw interval intersects the
// candidate interval widened by RoomBuffer on both sides. Meetings matching
// exclude are skipped, which lets a meeting be edited in place.
func RoomConflicts(meetings []models.Meeting, start, end time.Time, exclude uuid.UUID) []models.Meeting {
	bufferedStart := start.Add(-RoomBuffer)
	bufferedEnd := end.Add(RoomBuffer)

	var conflicts []models.Meeting
	for _, m := range meetings {
		if m.ID == exclude {
			continue
		}
		if Overlaps(bufferedStart, bufferedEnd, m.StartsAt, m.EndsAt) {
			conflicts = append(conflicts, m)
		}
	}
	return conflicts
}

// ParticipantAvailable reports whether none of the meetings intersect the
// candidate interval. No buffer: back-to-back attendance is allowed.
func ParticipantAvailable(meetings []models.Meeting, start, end time.Time, exclude uuid.UUID) bool {
	for _, m := range meetings {
		if m.ID == exclude {
			continue
		}
		if Overlaps(start, end, m.StartsAt, m.EndsAt) {
			return false
		}
	}
	return true
}
