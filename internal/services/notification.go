package service

import (
	"context"
	"fmt"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/pkg/sendgrid"
)

// NotificationService sends booking-related emails. Callers treat failures
// as best-effort; nothing in checkout blocks on delivery.
type NotificationService struct {
	email sendgrid.EmailService
}

func NewNotificationService(email sendgrid.EmailService) *NotificationService {
	return &NotificationService{email: email}
}

func (s *NotificationService) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {

	content := fmt.Sprintf(
		"Your booking %s has been placed.\n\nServices: %d\nAmount payable: %.0f\n\nWe will confirm your schedule shortly.",
		order.ID, len(order.Items), order.FinalAmount,
	)

	req := &models.EmailNotificationRequest{
		To:      to,
		Subject: fmt.Sprintf("Booking confirmed: %s", order.ID),
		Content: content,
	}

	return s.email.Send(ctx, req)
}
