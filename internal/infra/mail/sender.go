package mail

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	From       string
	AlertInbox string
}

// NewEmailSender builds the SMTP sender. alertInbox is the shared sales
// inbox that receives follow-up flags.
func NewEmailSender(host string, port int, user, password, from, alertInbox string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		From:       from,
		AlertInbox: alertInbox,
	}
}

var followUpTmpl = template.Must(template.New("follow_up").Parse(
	`Lead {{.Name}} ({{.Email}}) was flagged for follow-up.

Owner:   {{.OwnerID}}
Channel: {{.Channel}}
Due:     {{.Due}}
`))

type followUpData struct {
	Name    string
	Email   string
	OwnerID string
	Channel entity.Channel
	Due     string
}

func (s *EmailSender) SendFollowUpAlert(lead *entity.Lead, due time.Time) error {
	var body bytes.Buffer
	err := followUpTmpl.Execute(&body, followUpData{
		Name:    lead.Name,
		Email:   lead.Email,
		OwnerID: lead.OwnerID,
		Channel: lead.Channel,
		Due:     due.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return fmt.Errorf("follow-up template failed: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.AlertInbox)
	m.SetHeader("Subject", fmt.Sprintf("Follow-up: %s", lead.Name))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}
