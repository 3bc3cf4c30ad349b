// Package services отправляет клиентам письма о событиях биллинга.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/prorate"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/smtp"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// SenderService формирует и отправляет письма через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendUpgradeConfirmation отправляет подтверждение смены плана.
// body - JSON события PlanUpgradedEvent из очереди.
func (s *SenderService) SendUpgradeConfirmation(body []byte) error {
	var event models.PlanUpgradedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.UserEmail == "" {
		// повтор не поможет: адреса нет в самом событии
		s.log.Warn("upgrade event without recipient, skipping", slog.String("event_id", event.EventID))
		return nil
	}

	to := []string{event.UserEmail}
	subject := fmt.Sprintf("Je abonnement is geüpgraded naar %s", event.NewPlanName)
	return s.sendEmail(to, subject, upgradeBody(event))
}

func upgradeBody(event models.PlanUpgradedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Beste klant,\r\n\r\nJe abonnement is gewijzigd van %s naar %s.\r\n", event.OldPlanName, event.NewPlanName)
	if event.AmountPaid.IsPositive() {
		fmt.Fprintf(&b, "Betaald bedrag: %s\r\n", prorate.FormatAmount(event.AmountPaid))
	} else {
		b.WriteString("Er zijn geen extra kosten in rekening gebracht.\r\n")
	}
	if event.CreditApplied.IsPositive() {
		fmt.Fprintf(&b, "Toegepaste credit: %s\r\n", prorate.FormatAmount(event.CreditApplied))
	}
	if !event.PeriodEnd.IsZero() {
		fmt.Fprintf(&b, "Je huidige periode loopt tot %s.\r\n", event.PeriodEnd.Format("02-01-2006"))
	}
	b.WriteString("\r\nBedankt voor je vertrouwen.\r\n")
	return b.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.Sender(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.Sender()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.Sender()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
