// Package notify turns booking outcomes into participant emails. Delivery
// is best-effort: each recipient is independent and the caller only gets a
// count of successful sends.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/rlemos/roombook/internal/models"
)

// Mailer is the SMTP-capable sender the dispatcher writes through.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) bool
}

type EmailNotifier struct {
	mailer Mailer
}

func NewEmailNotifier(mailer Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

const timeLayout = "02/01/2006 às 15:04"

type emailData struct {
	Heading      string
	Intro        string
	Title        string
	Description  string
	Start        string
	End          string
	Room         string
	Organizer    string
	Participants []models.User
	Outro        string
}

var bodyTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: #4a5acb; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0; }
.content { background: #f9f9f9; padding: 20px; border-radius: 0 0 10px 10px; }
.info-box { background: white; padding: 15px; margin: 10px 0; border-radius: 5px; border-left: 4px solid #4a5acb; }
.footer { text-align: center; margin-top: 20px; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>{{.Heading}}</h1></div>
<div class="content">
<p>Olá!</p>
<p>{{.Intro}}</p>
<div class="info-box">
<h3>Detalhes da Reunião</h3>
<p><strong>Título:</strong> {{.Title}}</p>
<p><strong>Descrição:</strong> {{if .Description}}{{.Description}}{{else}}Sem descrição{{end}}</p>
<p><strong>Início:</strong> {{.Start}}</p>
<p><strong>Término:</strong> {{.End}}</p>
<p><strong>Local:</strong> {{.Room}}</p>
<p><strong>Organizador:</strong> {{.Organizer}}</p>
</div>
{{if .Participants}}
<div class="info-box">
<h3>Participantes</h3>
<ul>
{{range .Participants}}<li>{{.Username}} ({{.Email}})</li>
{{end}}</ul>
</div>
{{end}}
<p>{{.Outro}}</p>
<p>Atenciosamente,<br><strong>Sistema de Agendamento de Reuniões</strong></p>
</div>
<div class="footer"><p>Este é um email automático. Não responda a esta mensagem.</p></div>
</div>
</body>
</html>`))

// MeetingScheduled emails every participant about a new booking and
// returns how many sends succeeded.
func (n *EmailNotifier) MeetingScheduled(meeting *models.Meeting, participants []models.User) (int, error) {
	subject := fmt.Sprintf("Nova Reunião Agendada: %s", meeting.Title)
	data := emailData{
		Heading:      "Nova Reunião Agendada",
		Intro:        "Uma nova reunião foi agendada e você foi convidado(a) para participar.",
		Outro:        "Por favor, confirme sua presença e anote em sua agenda.",
		Participants: participants,
	}
	return n.broadcast(meeting, participants, subject, data)
}

// MeetingCancelled emails the pre-cancellation roster.
func (n *EmailNotifier) MeetingCancelled(meeting *models.Meeting, participants []models.User) (int, error) {
	subject := fmt.Sprintf("Reunião Cancelada: %s", meeting.Title)
	data := emailData{
		Heading: "Reunião Cancelada",
		Intro:   "Uma reunião da qual você participaria foi cancelada.",
		Outro:   "Você pode desconsiderar este compromisso em sua agenda.",
	}
	return n.broadcast(meeting, participants, subject, data)
}

func (n *EmailNotifier) broadcast(meeting *models.Meeting, participants []models.User, subject string, data emailData) (int, error) {
	data.Title = meeting.Title
	data.Description = meeting.Description
	data.Start = meeting.StartsAt.Format(timeLayout)
	data.End = meeting.EndsAt.Format(timeLayout)
	data.Room = meeting.Room.Name
	data.Organizer = meeting.Organizer.Username

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return 0, err
	}
	htmlBody := buf.String()
	textBody := plainText(data)

	sent := 0
	for _, p := range participants {
		if n.mailer.Send(p.Email, subject, htmlBody, textBody) {
			sent++
		}
	}
	return sent, nil
}

func plainText(data emailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá!\n\n%s\n\n", data.Intro)
	fmt.Fprintf(&b, "DETALHES DA REUNIÃO:\n")
	fmt.Fprintf(&b, "- Título: %s\n", data.Title)
	if data.Description != "" {
		fmt.Fprintf(&b, "- Descrição: %s\n", data.Description)
	}
	fmt.Fprintf(&b, "- Início: %s\n- Término: %s\n", data.Start, data.End)
	fmt.Fprintf(&b, "- Local: %s\n- Organizador: %s\n\n", data.Room, data.Organizer)
	fmt.Fprintf(&b, "%s\n", data.Outro)
	return b.String()
}
