package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendFraudAlert notifies a client that the fraud engine escalated one of
// their cards
func (s *Sender) SendFraudAlert(to, clientName string, cardID int64, level, description string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Fraud Alert (%s) on Card %d", level, cardID)

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Our fraud detection system raised an alert on your card %d:\n\n"+
			"  %s\n\n"+
			"Detected at: %s\n"+
			"The card may have been suspended or blocked as a precaution.\n"+
			"Please contact your branch if you do not recognize this activity.\n"+
			"\nBest regards,\nBank Risk Service",
		clientName, cardID, description, time.Now().Format("2006-01-02 15:04:05"),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send fraud alert to %s: %v", to, err)
		return fmt.Errorf("failed to send fraud alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
