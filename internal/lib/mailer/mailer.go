package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Message — письмо для отправки: получатели, тема и HTML-тело.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// EmailSender — узкий интерфейс внешнего коллаборатора по отправке почты.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender отправляет письма через SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = msg.To
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := e.Send(addr, smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
