package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

const dialTimeout = 5 * time.Second

// NewMailer wires an SMTP dialer to the given account and returns a Mail
// that renders messages from tp before sending them as sender.
func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = dialTimeout

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// send renders templateFile with data and delivers the result to recipient
// as a multipart plain/html message. Calls are serialized on m.mu.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	return m.dialer.DialAndSend(msg)
}
