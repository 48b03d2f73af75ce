package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"uniqueIndex;not null"`
	Capacity int       `gorm:"not null;default:10"`
	Active   bool      `gorm:"not null;default:true"`

	Meetings []Meeting `gorm:"foreignKey:RoomID"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
