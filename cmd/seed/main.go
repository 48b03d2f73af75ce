// Command seed loads a set of test users into the database so a fresh
// install has accounts to log in with. Existing users are left alone.
package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/models"
)

var testUsers = []struct {
	username string
	email    string
}{
	{"admin", "admin@example.com"},
	{"joao.silva", "joao.silva@example.com"},
	{"maria.santos", "maria.santos@example.com"},
	{"pedro.oliveira", "pedro.oliveira@example.com"},
	{"ana.costa", "ana.costa@example.com"},
}

const testPassword = "123456"

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		godotenv.Load()
	}

	db := &database.Database{}
	if err := db.Connect(); err != nil {
		logrus.Fatalf("Postgres connect failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("cannot hash password: %v", err)
	}

	created := 0
	for _, tu := range testUsers {
		if _, err := db.FindUserByUsername(tu.username); err == nil {
			continue
		}
		user := &models.User{
			Username:     tu.username,
			Email:        tu.email,
			PasswordHash: string(hash),
			Active:       true,
			CreatedAt:    time.Now(),
		}
		if err := db.SaveUser(user); err != nil {
			logrus.WithError(err).Warnf("failed to create user %s", tu.username)
			continue
		}
		created++
		logrus.Infof("created user %s (%s) - password: %s", tu.username, tu.email, testPassword)
	}

	logrus.Infof("seed finished, %d users created", created)
}
