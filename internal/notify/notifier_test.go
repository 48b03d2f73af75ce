package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlemos/roombook/internal/models"
)

type fakeMailer struct {
	sent    []string
	refuse  map[string]bool
	html    string
	text    string
	subject string
}

func (f *fakeMailer) Send(to, subject, htmlBody, textBody string) bool {
	if f.refuse[to] {
		return false
	}
	f.sent = append(f.sent, to)
	f.subject = subject
	f.html = htmlBody
	f.text = textBody
	return true
}

func testMeeting() *models.Meeting {
	return &models.Meeting{
		Title:       "Sprint Review",
		Description: "demo of the new booking flow",
		StartsAt:    time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC),
		Room:        models.Room{Name: "Sala A"},
		Organizer:   models.User{Username: "organizer"},
	}
}

func testParticipants() []models.User {
	return []models.User{
		{Username: "alice", Email: "alice@example.com"},
		{Username: "bob", Email: "bob@example.com"},
	}
}

func TestMeetingScheduledSendsToEveryParticipant(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifier(mailer)

	sent, err := n.MeetingScheduled(testMeeting(), testParticipants())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, mailer.sent)

	assert.Contains(t, mailer.subject, "Sprint Review")
	assert.Contains(t, mailer.html, "Sala A")
	assert.Contains(t, mailer.html, "organizer")
	assert.Contains(t, mailer.html, "03/03/2025 às 10:00")
	assert.Contains(t, mailer.html, "alice")
	assert.Contains(t, mailer.text, "Sprint Review")
}

func TestOneRecipientFailingDoesNotBlockOthers(t *testing.T) {
	mailer := &fakeMailer{refuse: map[string]bool{"alice@example.com": true}}
	n := NewEmailNotifier(mailer)

	sent, err := n.MeetingScheduled(testMeeting(), testParticipants())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"bob@example.com"}, mailer.sent)
}

func TestMeetingCancelled(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifier(mailer)

	sent, err := n.MeetingCancelled(testMeeting(), testParticipants())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Contains(t, mailer.subject, "Cancelada")
	assert.Contains(t, mailer.html, "cancelada")
}

func TestEmptyDescriptionFallsBack(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifier(mailer)

	meeting := testMeeting()
	meeting.Description = ""
	_, err := n.MeetingScheduled(meeting, testParticipants()[:1])
	require.NoError(t, err)
	assert.Contains(t, mailer.html, "Sem descrição")
}
