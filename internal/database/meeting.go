package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/rlemos/roombook/internal/models"
)

// CreateMeeting persists the meeting together with its participant links.
// Both commit or neither does.
func (d *Database) CreateMeeting(meeting *models.Meeting) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(meeting).Error
	})
}

func (d *Database) GetMeeting(id string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := d.db.
		Preload("Room").
		Preload("Organizer").
		Preload("Participants").
		First(&meeting, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MeetingFilter narrows GetActiveMeetings. Zero fields are ignored.
type MeetingFilter struct {
	From   *time.Time
	To     *time.Time
	RoomID string
}

func (d *Database) GetActiveMeetings(filter MeetingFilter) ([]models.Meeting, error) {
	query := d.db.
		Preload("Room").
		Preload("Organizer").
		Preload("Participants").
		Where("active = ?", true)

	if filter.From != nil {
		query = query.Where("ends_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("starts_at <= ?", *filter.To)
	}
	if filter.RoomID != "" {
		query = query.Where("room_id = ?", filter.RoomID)
	}

	var meetings []models.Meeting
	if err := query.Order("starts_at").Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ActiveMeetingsByRoom returns every live meeting in the room, candidates
// for the conflict evaluator.
func (d *Database) ActiveMeetingsByRoom(roomID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := d.db.
		Where("room_id = ? AND active = ?", roomID, true).
		Order("starts_at").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// ActiveMeetingsByParticipant returns every live meeting the user is a
// participant of.
func (d *Database) ActiveMeetingsByParticipant(userID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := d.db.
		Joins("JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("mp.user_id = ? AND meetings.active = ?", userID, true).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// UpdateMeeting writes the meeting's own fields and, when participants is
// non-nil, replaces the participant set, all in one transaction.
func (d *Database) UpdateMeeting(meeting *models.Meeting, participants *[]models.User) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       meeting.Title,
			"description": meeting.Description,
			"starts_at":   meeting.StartsAt,
			"ends_at":     meeting.EndsAt,
		}
		if err := tx.Model(&models.Meeting{}).Where("id = ?", meeting.ID).Updates(updates).Error; err != nil {
			return err
		}
		if participants != nil {
			assoc := tx.Model(meeting).Association("Participants")
			if len(*participants) == 0 {
				return assoc.Clear()
			}
			return assoc.Replace(*participants)
		}
		return nil
	})
}

// CancelMeeting flips the active flag. The row and its participant links
// stay behind for history.
func (d *Database) CancelMeeting(id string) error {
	return d.db.Model(&models.Meeting{}).Where("id = ?", id).Update("active", false).Error
}
