package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *logrus.Logger
}

// NewMailer returns nil when host or sender is empty; a nil *Mailer sends nothing.
func NewMailer(host string, port int, from, password string, logger *logrus.Logger) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{host: host, port: port, from: from, password: password, logger: logger}
}

func (m *Mailer) SendEmail(to, subject, body string, attachments ...string) error {
	if m == nil {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, filePath := range attachments {
		if _, err := os.Stat(filePath); err != nil {
			m.logger.Warnf("Attachment not found, skipping: %s", filePath)
			continue
		}
		msg.Attach(filePath, gomail.Rename(filepath.Base(filePath)))
	}

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	if err := d.DialAndSend(msg); err != nil {
		m.logger.Errorf("failed to send email to %s", to)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
