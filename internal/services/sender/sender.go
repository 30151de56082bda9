// Package sender превращает уведомления из очередей в письма.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/lib/smtp"
	"github.com/creatorshield/creatorshield/internal/models"
)

// SenderService отправляет письма по сообщениям из очередей уведомлений.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendAccountNotification обрабатывает сообщение о переходе статуса аккаунта.
func (s *SenderService) SendAccountNotification(body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText := accountEmail(message)
	if subject == "" {
		s.log.Warn("unknown account notification kind, skipping", slog.String("kind", message.Kind))
		return nil
	}
	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendDeviceNotification обрабатывает сообщение о входе с нового устройства.
func (s *SenderService) SendDeviceNotification(body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "New device sign-in to your CreatorShield account"
	var device strings.Builder
	if message.Device != nil {
		fmt.Fprintf(&device, "\n\nDevice: %s\nBrowser: %s %s\nOS: %s %s\nIP address: %s\nLocation: %s\nTime: %s\n",
			message.Device.DeviceName,
			message.Device.Browser, message.Device.BrowserVersion,
			message.Device.OS, message.Device.OSVersion,
			message.Device.IPAddress, message.Device.Location,
			message.Device.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	}
	bodyText := fmt.Sprintf("Hello, %s!\n\nWe noticed a sign-in to your account from a device we have not seen before.%s\nIf this was you, no action is needed. If you do not recognize this activity, change your password immediately.",
		message.Username, device.String())

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func accountEmail(message models.Notification) (subject, bodyText string) {
	name := message.Username

	switch message.Kind {
	case models.NotificationSuspended:
		return "Your CreatorShield account has been suspended",
			fmt.Sprintf("Hello, %s!\n\nYour account has been temporarily suspended. Access is restored automatically after the suspension period ends.", name)
	case models.NotificationSuspensionLifted:
		return "Your CreatorShield account suspension has been lifted",
			fmt.Sprintf("Hello, %s!\n\nThe suspension on your account has been lifted. You can sign in again.", name)
	case models.NotificationDeactivated:
		return "Your CreatorShield account has been deactivated",
			fmt.Sprintf("Hello, %s!\n\nYour account has been deactivated. To restore access, submit a reactivation request.", name)
	case models.NotificationReactivationReceived:
		return "We received your reactivation request",
			fmt.Sprintf("Hello, %s!\n\nYour reactivation request has been received and is awaiting review. We will notify you once a decision is made.", name)
	case models.NotificationReactivationApproved:
		return "Your reactivation request has been approved",
			fmt.Sprintf("Hello, %s!\n\nYour reactivation request has been approved. Your account becomes active after the waiting period.", name)
	case models.NotificationReactivationRejected:
		return "Your reactivation request has been rejected",
			fmt.Sprintf("Hello, %s!\n\nUnfortunately, your reactivation request has been rejected. You may submit a new request with additional details.", name)
	case models.NotificationReactivated:
		return "Your CreatorShield account is active again",
			fmt.Sprintf("Hello, %s!\n\nThe suspension period has ended and your account is active again. Welcome back!", name)
	case models.NotificationActivated:
		return "Your CreatorShield account has been reactivated",
			fmt.Sprintf("Hello, %s!\n\nThe waiting period after your approved reactivation has ended. Your account is active again. Welcome back!", name)
	}
	return "", ""
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
