package database

import (
	"github.com/rlemos/roombook/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) FindRoomByName(name string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Where("name = ?", name).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetActiveRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := d.db.Where("active = ?", true).Order("name").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (d *Database) CountRooms() (int64, error) {
	var count int64
	if err := d.db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (d *Database) UpdateRoom(room *models.Room) error {
	return d.db.Save(room).Error
}

// DeactivateRoom soft-deletes a room. Historical meetings keep their reference.
func (d *Database) DeactivateRoom(id string) error {
	return d.db.Model(&models.Room{}).Where("id = ?", id).Update("active", false).Error
}
