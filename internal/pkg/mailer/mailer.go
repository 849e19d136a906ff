package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer отправляет транзакционные письма
type Mailer interface {
	SendPasswordReset(toEmail, toName, resetURL string) error
	SendReservationStatus(toEmail, toName, carName, status string) error
}

// Config конфигурация SendGrid отправителя
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// sendgridMailer - реализация Mailer через SendGrid
type sendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// New создает Mailer; при пустом API ключе возвращает noop реализацию,
// чтобы локальная разработка не требовала учетных данных SendGrid
func New(cfg Config) Mailer {
	if cfg.APIKey == "" {
		return &noopMailer{}
	}
	return &sendgridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (m *sendgridMailer) SendPasswordReset(toEmail, toName, resetURL string) error {
	subject := "Ссылка для восстановления пароля"
	plain := fmt.Sprintf(
		"Здравствуйте, %s!\n\n"+
			"Для восстановления пароля перейдите по ссылке:\n%s\n\n"+
			"Ссылка действительна в течение 1 часа.",
		toName, resetURL,
	)
	html := fmt.Sprintf(
		`<p>Здравствуйте, %s!</p>
<p><a href="%s">Восстановить пароль</a></p>
<p>Ссылка действительна в течение 1 часа.</p>`,
		toName, resetURL,
	)
	return m.send(toEmail, toName, subject, plain, html)
}

func (m *sendgridMailer) SendReservationStatus(toEmail, toName, carName, status string) error {
	subject := fmt.Sprintf("Бронь автомобиля %s: %s", carName, status)
	plain := fmt.Sprintf(
		"Здравствуйте, %s!\n\nСтатус вашей брони автомобиля %s: %s.",
		toName, carName, status,
	)
	html := fmt.Sprintf(
		`<p>Здравствуйте, %s!</p><p>Статус вашей брони автомобиля <b>%s</b>: %s.</p>`,
		toName, carName, status,
	)
	return m.send(toEmail, toName, subject, plain, html)
}

func (m *sendgridMailer) send(toEmail, toName, subject, plain, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// noopMailer молча игнорирует все письма
type noopMailer struct{}

func (*noopMailer) SendPasswordReset(_, _, _ string) error       { return nil }
func (*noopMailer) SendReservationStatus(_, _, _, _ string) error { return nil }
