// internal/notification/service.go
// Out-of-band notifications for matches. Delivery failures are logged,
// never returned to the matching flow.

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Service sends match notifications. Implements matching.Notifier.
type Service struct {
	email      EmailProvider
	sms        SMSProvider
	smsEnabled bool
}

// NewService creates a notification service. sms may be nil.
func NewService(email EmailProvider, sms SMSProvider, smsEnabled bool) *Service {
	return &Service{
		email:      email,
		sms:        sms,
		smsEnabled: smsEnabled && sms != nil,
	}
}

// NotifyMatch tells user they are now connected with other
func (s *Service) NotifyMatch(ctx context.Context, user, other *profile.Profile) error {
	if s.email != nil && user.Email != "" {
		email := &Email{
			To:      user.Email,
			Subject: "You have a new connection on WorkSwipe",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYou and %s are now connected. Open the app to start the conversation.\n\nThe WorkSwipe Team",
				user.DisplayName(), other.DisplayName(),
			),
		}
		if err := s.email.SendEmail(ctx, email); err != nil {
			log.Printf("Failed to send match email to %s: %v", user.Email, err)
		}
	}

	if s.smsEnabled && user.Phone != "" {
		sms := &SMS{
			To:      user.Phone,
			Message: fmt.Sprintf("WorkSwipe: you and %s are now connected!", other.DisplayName()),
		}
		if err := s.sms.SendSMS(ctx, sms); err != nil {
			log.Printf("Failed to send match SMS to %s: %v", user.Phone, err)
		}
	}

	return nil
}
