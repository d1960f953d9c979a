package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/config"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

// NotificationService delivers the emails that carry medium-lived tokens.
// Each send returns the provider message id.
type NotificationService interface {
	SendVerificationEmail(ctx context.Context, to, token string) (string, error)
	SendPasswordResetEmail(ctx context.Context, to, token string) (string, error)
	SendFamilyInvitationEmail(ctx context.Context, to, token, familyName string) (string, error)
}

type notificationService struct {
	sendgridClient *sendgrid.Client
	cfg            *config.Config
}

func NewNotificationService(cfg *config.Config) NotificationService {
	return &notificationService{
		sendgridClient: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		cfg:            cfg,
	}
}

func (s *notificationService) SendVerificationEmail(ctx context.Context, to, token string) (string, error) {
	link := s.cfg.AppUrl + "/verify-email?token=" + token
	return s.send(ctx, to,
		s.cfg.OrganizationName+" - Verify Your Email",
		"Please confirm your email address to finish setting up your account. This link is valid for 24 hours.",
		link, "Verify Email",
	)
}

func (s *notificationService) SendPasswordResetEmail(ctx context.Context, to, token string) (string, error) {
	link := s.cfg.AppUrl + "/reset-password?token=" + token
	return s.send(ctx, to,
		s.cfg.OrganizationName+" - Reset Your Password",
		"We received a request to reset your password. This link is valid for 1 hour.",
		link, "Reset Password",
	)
}

func (s *notificationService) SendFamilyInvitationEmail(ctx context.Context, to, token, familyName string) (string, error) {
	link := s.cfg.AppUrl + "/join-family?token=" + token
	return s.send(ctx, to,
		s.cfg.OrganizationName+" - Family Invitation",
		fmt.Sprintf("You have been invited to join the %q family budget. This invitation is valid for 72 hours.", familyName),
		link, "Join Family",
	)
}

func (s *notificationService) send(ctx context.Context, to, subject, body, link, action string) (string, error) {
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.SendGridFromEmail)
	recipient := mail.NewEmail("", to)
	plainTextContent := fmt.Sprintf("%s\n\n%s", body, link)
	htmlContent := fmt.Sprintf(actionEmailHTML, subject, subject, body, link, action, time.Now().Year())
	message := mail.NewSingleEmail(from, subject, recipient, plainTextContent, htmlContent)

	if s.cfg.SendGridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := s.sendgridClient.SendWithContext(ctx, message)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send email to %s via SendGrid", to)
		return "", utils.NewInfrastructureError("failed to send email", err)
	}

	messageID := ""
	if ids, ok := resp.Headers["X-Message-Id"]; ok && len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, nil
}
