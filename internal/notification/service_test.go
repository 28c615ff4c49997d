// internal/notification/service_test.go

package notification

import (
	"context"
	"strings"
	"testing"

	"github.com/workswipe/workswipe-backend/internal/profile"
)

func TestNotifyMatch_SendsEmailAndSMS(t *testing.T) {
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(email, sms, true)

	user := &profile.Profile{
		UID:       "a1",
		Category:  profile.CategoryApplicant,
		Email:     "ada@example.com",
		Phone:     "+14155550100",
		FirstName: "Ada",
	}
	other := &profile.Profile{
		UID:         "c1",
		Category:    profile.CategoryCompany,
		CompanyName: "Acme Corp",
	}

	if err := svc.NotifyMatch(context.Background(), user, other); err != nil {
		t.Fatalf("NotifyMatch: %v", err)
	}

	emails := email.Sent()
	if len(emails) != 1 {
		t.Fatalf("email count = %d", len(emails))
	}
	if emails[0].To != "ada@example.com" {
		t.Errorf("email to = %q", emails[0].To)
	}
	if !strings.Contains(emails[0].Body, "Acme Corp") {
		t.Errorf("email body missing partner name: %q", emails[0].Body)
	}

	texts := sms.Sent()
	if len(texts) != 1 {
		t.Fatalf("sms count = %d", len(texts))
	}
	if texts[0].To != "+14155550100" {
		t.Errorf("sms to = %q", texts[0].To)
	}
}

func TestNotifyMatch_SMSDisabled(t *testing.T) {
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(email, sms, false)

	user := &profile.Profile{
		UID:       "a1",
		Category:  profile.CategoryApplicant,
		Email:     "ada@example.com",
		Phone:     "+14155550100",
		FirstName: "Ada",
	}
	other := &profile.Profile{UID: "c1", Category: profile.CategoryCompany, CompanyName: "Acme"}

	if err := svc.NotifyMatch(context.Background(), user, other); err != nil {
		t.Fatalf("NotifyMatch: %v", err)
	}

	if len(sms.Sent()) != 0 {
		t.Error("sms sent while disabled")
	}
	if len(email.Sent()) != 1 {
		t.Error("email not sent")
	}
}

func TestNotifyMatch_NoContactDetails(t *testing.T) {
	email := NewMockEmailProvider()
	svc := NewService(email, nil, true)

	user := &profile.Profile{UID: "a1", Category: profile.CategoryApplicant, FirstName: "Ada"}
	other := &profile.Profile{UID: "c1", Category: profile.CategoryCompany, CompanyName: "Acme"}

	if err := svc.NotifyMatch(context.Background(), user, other); err != nil {
		t.Fatalf("NotifyMatch: %v", err)
	}
	if len(email.Sent()) != 0 {
		t.Error("email sent without an address")
	}
}
