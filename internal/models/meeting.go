package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Meeting struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
	CreatedAt   time.Time
	// Active is flipped to false on cancellation; the row is never deleted.
	Active      bool      `gorm:"not null;default:true;index"`
	RoomID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrganizerID uuid.UUID `gorm:"type:uuid;not null"`

	Room         Room   `gorm:"foreignKey:RoomID"`
	Organizer    User   `gorm:"foreignKey:OrganizerID"`
	Participants []User `gorm:"many2many:meeting_participants"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
