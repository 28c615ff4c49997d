// internal/profile/service_test.go

package profile

import (
	"context"
	"testing"

	"github.com/workswipe/workswipe-backend/internal/store"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db := store.NewMemoryStore()
	t.Cleanup(func() { db.Close() })
	return NewService(NewStoreRepository(db), nil, NewCache(nil))
}

func seedProfile(t *testing.T, svc Service) *Profile {
	t.Helper()
	p := &Profile{
		UID:       "a1",
		Category:  CategoryApplicant,
		Email:     "ada@example.com",
		FirstName: "Ada",
	}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return p
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc)
	ctx := context.Background()

	bio := "Looking for backend roles"
	updated, err := svc.UpdateProfile(ctx, "a1", &UpdateProfileRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if updated.Bio != bio {
		t.Errorf("Bio = %q", updated.Bio)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("FirstName lost on partial update: %q", updated.FirstName)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bio := "hello"
	if _, err := svc.UpdateProfile(ctx, "missing", &UpdateProfileRequest{Bio: &bio}); err == nil {
		t.Error("update of unknown profile succeeded")
	}
}

func TestCountByCategory(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc)
	ctx := context.Background()

	if err := svc.CreateProfile(ctx, &Profile{
		UID:         "c1",
		Category:    CategoryCompany,
		Email:       "hr@acme.com",
		CompanyName: "Acme",
	}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	applicants, err := svc.CountByCategory(ctx, CategoryApplicant)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	companies, err := svc.CountByCategory(ctx, CategoryCompany)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}

	if applicants != 1 || companies != 1 {
		t.Errorf("counts = %d applicants, %d companies", applicants, companies)
	}
}

func TestDeleteProfile(t *testing.T) {
	svc := newTestService(t)
	seedProfile(t, svc)
	ctx := context.Background()

	if err := svc.DeleteProfile(ctx, "a1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := svc.GetProfile(ctx, "a1"); err == nil {
		t.Error("profile still readable after delete")
	}
}
