// Package mailer wraps the outbound SMTP transport. Sends are blocking,
// have no retry, and report success as a plain boolean.
package mailer

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type SMTP struct {
	host     string
	port     int
	username string
	password string
}

func NewFromEnv() *SMTP {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTP{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

// Send delivers one message. The text body is optional; when present the
// message goes out as multipart/alternative.
func (s *SMTP) Send(to, subject, htmlBody, textBody string) bool {
	m := gomail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if textBody != "" {
		m.SetBody("text/plain", textBody)
		m.AddAlternative("text/html", htmlBody)
	} else {
		m.SetBody("text/html", htmlBody)
	}

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		logrus.WithError(err).WithField("to", to).Error("failed to send email")
		return false
	}

	logrus.WithField("to", to).Info("email sent")
	return true
}
