package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"arrienda-backend/internal/logger"
)

// Notifier sends transactional email to the parties of a lease.
type Notifier interface {
	SendOtpCode(ctx context.Context, email, name, code string, expiresAt time.Time) error
	SendLeaseSigned(ctx context.Context, landlordEmail, landlordName, tenantName, propertyTitle string) error
	SendLeaseResponse(ctx context.Context, tenantEmail, tenantName, propertyTitle string, approved bool, notes string) error
}

type sendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) Notifier {
	return &sendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridNotifier) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridNotifier) SendOtpCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nTu codigo para firmar el contrato es: %s\n\nEl codigo expira a las %s.\n\nSi no solicitaste este codigo, ignora este mensaje.",
		name, code, expiresAt.Format("15:04"))
	return s.send(email, name, "Codigo de firma de contrato", body)
}

func (s *sendGridNotifier) SendLeaseSigned(ctx context.Context, landlordEmail, landlordName, tenantName, propertyTitle string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\n%s ha firmado el contrato de arrendamiento para %s.\n\nIngresa a la plataforma para revisar la solicitud y responder.",
		landlordName, tenantName, propertyTitle)
	return s.send(landlordEmail, landlordName, fmt.Sprintf("Contrato firmado - %s", propertyTitle), body)
}

func (s *sendGridNotifier) SendLeaseResponse(ctx context.Context, tenantEmail, tenantName, propertyTitle string, approved bool, notes string) error {
	decision := "rechazada"
	if approved {
		decision = "aprobada"
	}
	body := fmt.Sprintf("Hola %s,\n\nTu solicitud de arrendamiento para %s fue %s.", tenantName, propertyTitle, decision)
	if notes != "" {
		body += fmt.Sprintf("\n\nNota del arrendador: %s", notes)
	}
	return s.send(tenantEmail, tenantName, fmt.Sprintf("Solicitud %s - %s", decision, propertyTitle), body)
}

// noopNotifier logs instead of sending. Used when no SendGrid key is
// configured, typically in local development and tests.
type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) SendOtpCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	logger.Info("otp code issued (email disabled)", "email", email, "codeLength", len(code))
	return nil
}

func (noopNotifier) SendLeaseSigned(ctx context.Context, landlordEmail, landlordName, tenantName, propertyTitle string) error {
	logger.Info("lease signed notification (email disabled)", "email", landlordEmail)
	return nil
}

func (noopNotifier) SendLeaseResponse(ctx context.Context, tenantEmail, tenantName, propertyTitle string, approved bool, notes string) error {
	logger.Info("lease response notification (email disabled)", "email", tenantEmail, "approved", approved)
	return nil
}
