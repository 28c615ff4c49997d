// internal/auth/service_test.go

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/workswipe/workswipe-backend/internal/profile"
)

// fakeRepository is an in-memory Repository for tests
type fakeRepository struct {
	users    map[string]*User // by uid
	sessions map[string]*Session
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
	}
}

func (r *fakeRepository) CreateUser(ctx context.Context, user *User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailAlreadyExists
		}
	}
	copied := *user
	r.users[user.UID] = &copied
	return nil
}

func (r *fakeRepository) GetUserByUID(ctx context.Context, uid string) (*User, error) {
	if u, ok := r.users[uid]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeRepository) DeleteUser(ctx context.Context, uid string) error {
	delete(r.users, uid)
	for token, s := range r.sessions {
		if s.UserUID == uid {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeRepository) CreateSession(ctx context.Context, session *Session) error {
	session.ID = int64(len(r.sessions) + 1)
	copied := *session
	r.sessions[session.RefreshToken] = &copied
	return nil
}

func (r *fakeRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	if s, ok := r.sessions[refreshToken]; ok && s.ExpiresAt.After(time.Now()) {
		return s, nil
	}
	return nil, ErrInvalidToken
}

func (r *fakeRepository) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error {
	delete(r.sessions, refreshToken)
	return nil
}

func (r *fakeRepository) DeleteUserSessions(ctx context.Context, uid string) error {
	for token, s := range r.sessions {
		if s.UserUID == uid {
			delete(r.sessions, token)
		}
	}
	return nil
}

// fakeProfiles records created profiles and can be made to fail
type fakeProfiles struct {
	created map[string]*profile.Profile
	fail    bool
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{created: make(map[string]*profile.Profile)}
}

func (f *fakeProfiles) CreateProfile(ctx context.Context, p *profile.Profile) error {
	if f.fail {
		return errors.New("store unavailable")
	}
	f.created[p.UID] = p
	return nil
}

func (f *fakeProfiles) DeleteProfile(ctx context.Context, uid string) error {
	delete(f.created, uid)
	return nil
}

func testConfig() *Config {
	return &Config{
		JWTSecret:           "test-secret",
		AccessTokenExpiry:   time.Hour,
		RefreshTokenExpiry:  24 * time.Hour,
		BCryptCost:          4, // minimum cost, tests stay fast
		MinAge:              18,
		LoginAttemptsMax:    5,
		LoginAttemptsWindow: 15 * time.Minute,
	}
}

func applicantSignup() *SignupRequest {
	return &SignupRequest{
		Email:           "ada@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Category:        "applicant",
		Age:             24,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Skills:          []string{"Go"},
	}
}

func TestSignup_CreatesUserAndProfile(t *testing.T) {
	repo := newFakeRepository()
	profiles := newFakeProfiles()
	svc := NewService(repo, nil, profiles, testConfig())

	resp, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if resp.User.UID == "" {
		t.Fatal("no uid assigned")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("tokens missing")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q", resp.TokenType)
	}

	p, ok := profiles.created[resp.User.UID]
	if !ok {
		t.Fatal("profile document not created")
	}
	if p.Category != profile.CategoryApplicant || p.FirstName != "Ada" {
		t.Errorf("profile = %+v", p)
	}
	if p.Email != "ada@example.com" {
		t.Errorf("profile email = %q", p.Email)
	}

	stored, err := repo.GetUserByUID(context.Background(), resp.User.UID)
	if err != nil {
		t.Fatalf("auth row missing: %v", err)
	}
	if stored.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, newFakeProfiles(), testConfig())

	if _, err := svc.Signup(context.Background(), applicantSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	req := applicantSignup()
	req.Email = "ADA@example.com" // same address, different case
	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestSignup_CategoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr error
	}{
		{
			name:    "underage applicant",
			mutate:  func(r *SignupRequest) { r.Age = 17 },
			wantErr: ErrUnderage,
		},
		{
			name:    "applicant without first name",
			mutate:  func(r *SignupRequest) { r.FirstName = "" },
			wantErr: ErrMissingName,
		},
		{
			name: "company without company name",
			mutate: func(r *SignupRequest) {
				r.Category = "company"
				r.CompanyName = ""
			},
			wantErr: ErrMissingName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeRepository(), nil, newFakeProfiles(), testConfig())

			req := applicantSignup()
			tt.mutate(req)

			_, err := svc.Signup(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSignup_RollsBackOnProfileFailure(t *testing.T) {
	repo := newFakeRepository()
	profiles := newFakeProfiles()
	profiles.fail = true
	svc := NewService(repo, nil, profiles, testConfig())

	_, err := svc.Signup(context.Background(), applicantSignup())
	if err == nil {
		t.Fatal("expected signup to fail")
	}

	if len(repo.users) != 0 {
		t.Errorf("auth row not rolled back: %d users", len(repo.users))
	}
}

func TestSignin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, newFakeProfiles(), testConfig())

	if _, err := svc.Signup(context.Background(), applicantSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	resp, err := svc.Signin(context.Background(), &SigninRequest{
		Email:    "Ada@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Signin: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("no access token")
	}

	_, err = svc.Signin(context.Background(), &SigninRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Signin(context.Background(), &SigninRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRefreshToken_RotatesSession(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, newFakeProfiles(), testConfig())

	signup, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), signup.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("no new access token")
	}

	// Old refresh token is revoked
	if _, err := svc.RefreshToken(context.Background(), signup.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("old refresh token still valid, err = %v", err)
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, newFakeProfiles(), testConfig())

	signup, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.RefreshToken(context.Background(), signup.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token, err = %v", err)
	}
}

func TestLogoutAllDevices(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil, newFakeProfiles(), testConfig())

	signup, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	signin, err := svc.Signin(context.Background(), &SigninRequest{Email: "ada@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}

	if err := svc.LogoutAllDevices(context.Background(), signup.User.UID); err != nil {
		t.Fatalf("LogoutAllDevices: %v", err)
	}

	for _, token := range []string{signup.RefreshToken, signin.RefreshToken} {
		if _, err := svc.RefreshToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("session survived logout-all, err = %v", err)
		}
	}
}

func TestValidateToken_Claims(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, newFakeProfiles(), testConfig())

	signup, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), signup.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != signup.User.UID {
		t.Errorf("claims uid = %q", claims.UserID)
	}
	if claims.Category != "applicant" {
		t.Errorf("claims category = %q", claims.Category)
	}
	if claims.Type != "access" {
		t.Errorf("claims type = %q", claims.Type)
	}
}

func TestDeleteAccount_RemovesProfileToo(t *testing.T) {
	repo := newFakeRepository()
	profiles := newFakeProfiles()
	svc := NewService(repo, nil, profiles, testConfig())

	signup, err := svc.Signup(context.Background(), applicantSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), signup.User.UID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if len(repo.users) != 0 {
		t.Error("auth row survived account deletion")
	}
	if len(profiles.created) != 0 {
		t.Error("profile survived account deletion")
	}
}
