package notifiers

import (
	"fmt"
	"net/smtp"

	"github.com/argus-dev/argus/internal/models"
)

// SMTPMailer sends plain-text alert mail through a single SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(account models.Account, recipient, message string) error {
	if m == nil || m.Host == "" {
		return fmt.Errorf("smtp relay not configured")
	}

	from := account.SMTPFrom
	if from == "" {
		from = m.From
	}
	if from == "" {
		return fmt.Errorf("no sender address configured")
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Argus alert\r\n\r\n%s\r\n", from, recipient, message)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	return smtp.SendMail(addr, auth, from, []string{recipient}, []byte(body))
}
