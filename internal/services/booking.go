package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/models"
	"github.com/rlemos/roombook/internal/schedule"
)

// Notifier delivers booking emails. Implementations are best-effort: the
// returned count is how many recipients were reached, and any error is
// logged by the caller, never surfaced to the client.
type Notifier interface {
	MeetingScheduled(meeting *models.Meeting, participants []models.User) (int, error)
	MeetingCancelled(meeting *models.Meeting, participants []models.User) (int, error)
}

// BookingService runs the meeting workflow: validation, conflict checks,
// persistence, notification. Conflict check and insert for a room happen
// under a per-room mutex so concurrent requests cannot both pass the check.
type BookingService struct {
	db       *database.Database
	notifier Notifier

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewBookingService(db *database.Database, notifier Notifier) *BookingService {
	return &BookingService{
		db:        db,
		notifier:  notifier,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

func (s *BookingService) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomID] = lock
	}
	return lock
}

// ParseTime accepts ISO-8601 with an offset or trailing Z, or a naive
// timestamp which is taken as UTC.
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}

type CreateMeetingInput struct {
	Title          string
	Description    string
	Start          string
	End            string
	RoomID         string
	ParticipantIDs []string
}

func (s *BookingService) Create(organizerID uuid.UUID, in CreateMeetingInput) (*models.Meeting, error) {
	if in.Title == "" || in.Start == "" || in.End == "" || in.RoomID == "" {
		return nil, validationf("title, start, end and room are required")
	}

	start, end, err := parseInterval(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	room, err := s.db.GetRoom(in.RoomID)
	if err != nil || !room.Active {
		return nil, validationf("room not found or inactive")
	}

	lock := s.roomLock(room.ID.String())
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.db.ActiveMeetingsByRoom(room.ID.String())
	if err != nil {
		return nil, err
	}
	if conflicts := schedule.RoomConflicts(existing, start, end, uuid.Nil); len(conflicts) > 0 {
		return nil, &RoomConflictError{Conflicts: conflicts}
	}

	participants, err := s.resolveParticipants(in.ParticipantIDs, start, end, uuid.Nil)
	if err != nil {
		return nil, err
	}

	meeting := &models.Meeting{
		Title:        in.Title,
		Description:  in.Description,
		StartsAt:     start,
		EndsAt:       end,
		CreatedAt:    time.Now(),
		Active:       true,
		RoomID:       room.ID,
		OrganizerID:  organizerID,
		Participants: participants,
	}
	if err := s.db.CreateMeeting(meeting); err != nil {
		return nil, err
	}

	full, err := s.db.GetMeeting(meeting.ID.String())
	if err != nil {
		return nil, err
	}

	s.dispatch("scheduling", full, full.Participants, Notifier.MeetingScheduled)

	return full, nil
}

type UpdateMeetingInput struct {
	Title          *string
	Description    *string
	Start          *string
	End            *string
	ParticipantIDs *[]string
}

func (s *BookingService) Update(userID uuid.UUID, meetingID string, in UpdateMeetingInput) (*models.Meeting, error) {
	meeting, err := s.getMeeting(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OrganizerID != userID {
		return nil, ErrNotOwner
	}

	if in.Title != nil {
		meeting.Title = *in.Title
	}
	if in.Description != nil {
		meeting.Description = *in.Description
	}

	timesChanged := false
	if in.Start != nil {
		start, err := ParseTime(*in.Start)
		if err != nil {
			return nil, validationf("invalid start date, use ISO format")
		}
		if !start.Equal(meeting.StartsAt) {
			meeting.StartsAt = start
			timesChanged = true
		}
	}
	if in.End != nil {
		end, err := ParseTime(*in.End)
		if err != nil {
			return nil, validationf("invalid end date, use ISO format")
		}
		if !end.Equal(meeting.EndsAt) {
			meeting.EndsAt = end
			timesChanged = true
		}
	}
	if !meeting.EndsAt.After(meeting.StartsAt) {
		return nil, validationf("end must be after start")
	}

	if timesChanged {
		lock := s.roomLock(meeting.RoomID.String())
		lock.Lock()
		defer lock.Unlock()

		existing, err := s.db.ActiveMeetingsByRoom(meeting.RoomID.String())
		if err != nil {
			return nil, err
		}
		if conflicts := schedule.RoomConflicts(existing, meeting.StartsAt, meeting.EndsAt, meeting.ID); len(conflicts) > 0 {
			return nil, &RoomConflictError{Conflicts: conflicts}
		}
	}

	var replacement *[]models.User
	if in.ParticipantIDs != nil {
		participants, err := s.resolveParticipants(*in.ParticipantIDs, meeting.StartsAt, meeting.EndsAt, meeting.ID)
		if err != nil {
			return nil, err
		}
		replacement = &participants
	}

	if err := s.db.UpdateMeeting(meeting, replacement); err != nil {
		return nil, err
	}

	return s.db.GetMeeting(meeting.ID.String())
}

func (s *BookingService) Cancel(userID uuid.UUID, meetingID string) error {
	meeting, err := s.getMeeting(meetingID)
	if err != nil {
		return err
	}
	if meeting.OrganizerID != userID {
		return ErrNotOwner
	}

	// Keep the roster from before the flip for the cancellation emails.
	participants := meeting.Participants

	if err := s.db.CancelMeeting(meeting.ID.String()); err != nil {
		return err
	}

	s.dispatch("cancellation", meeting, participants, Notifier.MeetingCancelled)

	return nil
}

type ListMeetingsInput struct {
	From   string
	To     string
	RoomID string
}

func (s *BookingService) List(in ListMeetingsInput) ([]models.Meeting, error) {
	filter := database.MeetingFilter{RoomID: in.RoomID}

	if in.From != "" {
		from, err := ParseTime(in.From)
		if err != nil {
			return nil, validationf("invalid start date, use ISO format")
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := ParseTime(in.To)
		if err != nil {
			return nil, validationf("invalid end date, use ISO format")
		}
		filter.To = &to
	}

	return s.db.GetActiveMeetings(filter)
}

func (s *BookingService) Get(meetingID string) (*models.Meeting, error) {
	return s.getMeeting(meetingID)
}

// CalendarEvent is the compact projection used by the calendar view.
type CalendarEvent struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Start             string    `json:"start"`
	End               string    `json:"end"`
	Room              string    `json:"sala"`
	ParticipantsCount int       `json:"participantes_count"`
	Organizer         string    `json:"criador"`
}

func (s *BookingService) Calendar(year, month int) ([]CalendarEvent, error) {
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, validationf("month must be between 1 and 12")
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).AddDate(0, 0, -1)

	meetings, err := s.db.GetActiveMeetings(database.MeetingFilter{From: &monthStart, To: &monthEnd})
	if err != nil {
		return nil, err
	}

	events := make([]CalendarEvent, len(meetings))
	for i, m := range meetings {
		events[i] = CalendarEvent{
			ID:                m.ID,
			Title:             m.Title,
			Start:             m.StartsAt.Format(time.RFC3339),
			End:               m.EndsAt.Format(time.RFC3339),
			Room:              m.Room.Name,
			ParticipantsCount: len(m.Participants),
			Organizer:         m.Organizer.Username,
		}
	}
	return events, nil
}

type ProbeInput struct {
	RoomID         string
	Start          string
	End            string
	MeetingID      string
	ParticipantIDs []string
}

// ProbeResult reports what a booking attempt would collide with. Probing
// never mutates anything.
type ProbeResult struct {
	RoomConflicts []models.Meeting
	Unavailable   []models.User
	HasConflict   bool
}

func (s *BookingService) Probe(in ProbeInput) (*ProbeResult, error) {
	if in.RoomID == "" || in.Start == "" || in.End == "" {
		return nil, validationf("room, start and end are required")
	}

	start, err := ParseTime(in.Start)
	if err != nil {
		return nil, validationf("invalid date format")
	}
	end, err := ParseTime(in.End)
	if err != nil {
		return nil, validationf("invalid date format")
	}

	exclude := uuid.Nil
	if in.MeetingID != "" {
		if exclude, err = uuid.Parse(in.MeetingID); err != nil {
			return nil, validationf("invalid meeting id")
		}
	}

	existing, err := s.db.ActiveMeetingsByRoom(in.RoomID)
	if err != nil {
		return nil, err
	}
	roomConflicts := schedule.RoomConflicts(existing, start, end, exclude)

	var unavailable []models.User
	for _, id := range in.ParticipantIDs {
		user, err := s.db.GetUser(id)
		if err != nil {
			continue
		}
		busy, err := s.db.ActiveMeetingsByParticipant(id)
		if err != nil {
			return nil, err
		}
		if !schedule.ParticipantAvailable(busy, start, end, exclude) {
			unavailable = append(unavailable, *user)
		}
	}

	return &ProbeResult{
		RoomConflicts: roomConflicts,
		Unavailable:   unavailable,
		HasConflict:   len(roomConflicts) > 0 || len(unavailable) > 0,
	}, nil
}

// resolveParticipants validates every requested id and collects the busy
// ones, so a booking is rejected atomically with the full unavailable list.
func (s *BookingService) resolveParticipants(ids []string, start, end time.Time, exclude uuid.UUID) ([]models.User, error) {
	var valid []models.User
	var unavailable []models.User

	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, validationf("participant with id %s not found", id)
		}
		user, err := s.db.GetUser(id)
		if err != nil || !user.Active {
			return nil, validationf("participant with id %s not found", id)
		}

		busy, err := s.db.ActiveMeetingsByParticipant(id)
		if err != nil {
			return nil, err
		}
		if !schedule.ParticipantAvailable(busy, start, end, exclude) {
			unavailable = append(unavailable, *user)
		} else {
			valid = append(valid, *user)
		}
	}

	if len(unavailable) > 0 {
		return nil, &ParticipantConflictError{Unavailable: unavailable}
	}
	return valid, nil
}

func (s *BookingService) getMeeting(id string) (*models.Meeting, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	meeting, err := s.db.GetMeeting(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// dispatch runs a notification batch and swallows whatever goes wrong.
// Booking outcomes never depend on email delivery.
func (s *BookingService) dispatch(kind string, meeting *models.Meeting, participants []models.User, send func(Notifier, *models.Meeting, []models.User) (int, error)) {
	if s.notifier == nil || len(participants) == 0 {
		return
	}
	sent, err := send(s.notifier, meeting, participants)
	if err != nil {
		logrus.WithError(err).WithField("meeting_id", meeting.ID).Errorf("failed to send %s emails", kind)
		return
	}
	logrus.WithField("meeting_id", meeting.ID).Infof("%s emails sent: %d/%d", kind, sent, len(participants))
}

func parseInterval(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid date format, use ISO format")
	}
	end, err := ParseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid date format, use ISO format")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, validationf("end must be after start")
	}
	return start, end, nil
}
