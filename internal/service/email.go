package service

import (
	"fmt"
	"net/smtp"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// IEmailService sends operational notifications. A nil implementation is
// valid and disables email.
type IEmailService interface {
	SendFeedbackNotification(feedback *models.Feedback) error
}

// EmailService sends plain-text mail over SMTP.
type EmailService struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	adminEmail string
}

func NewEmailService(host, port, username, password, from, adminEmail string) *EmailService {
	return &EmailService{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		adminEmail: adminEmail,
	}
}

// SendFeedbackNotification mails new meal feedback to the admin address.
func (s *EmailService) SendFeedbackNotification(feedback *models.Feedback) error {
	if s.host == "" || s.adminEmail == "" {
		// Email is optional; treat missing config as a no-op.
		return nil
	}

	subject := fmt.Sprintf("New meal feedback for %s (%d/5)", feedback.Date, feedback.Rating)
	body := fmt.Sprintf("Date: %s\r\nRating: %d/5\r\nMeal: %s\r\n\r\n%s\r\n",
		feedback.Date, feedback.Rating, feedback.Meal, feedback.Comments)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, s.adminEmail, subject, body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{s.adminEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send feedback notification: %w", err)
	}
	return nil
}
