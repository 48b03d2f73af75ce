package database

import (
	"time"

	"github.com/rlemos/roombook/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetActiveUsers() ([]models.User, error) {
	var users []models.User
	if err := d.db.Where("active = ?", true).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (d *Database) UpdateLastLogin(id string) error {
	now := time.Now()
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}
