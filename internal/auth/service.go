// internal/auth/service.go
// Business logic for authentication. Signup creates both the credential
// row in Postgres and the profile document in the store, keyed by the
// same uid.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workswipe/workswipe-backend/internal/common/utils"
	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrUnderage           = errors.New("minimum age not met")
	ErrMissingName        = errors.New("missing required name fields")
	ErrNotAdmin           = errors.New("admin access required")
)

// ProfileCreator decouples auth from the full profile service
type ProfileCreator interface {
	CreateProfile(ctx context.Context, p *profile.Profile) error
	DeleteProfile(ctx context.Context, uid string) error
}

// Service interface
type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)

	// Token management
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)

	// Session management
	Logout(ctx context.Context, refreshToken string) error
	LogoutAllDevices(ctx context.Context, uid string) error

	// User queries
	GetUserByUID(ctx context.Context, uid string) (*User, error)
	DeleteAccount(ctx context.Context, uid string) error
}

type service struct {
	repo     Repository
	redis    *redis.Client
	profiles ProfileCreator
	config   *Config
}

// Config holds service configuration
type Config struct {
	JWTSecret           string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	BCryptCost          int
	MinAge              int
	LoginAttemptsMax    int
	LoginAttemptsWindow time.Duration
}

// NewService creates a new auth service. redis may be nil, which
// disables login throttling.
func NewService(repo Repository, redisClient *redis.Client, profiles ProfileCreator, config *Config) Service {
	return &service{
		repo:     repo,
		redis:    redisClient,
		profiles: profiles,
		config:   config,
	}
}

// Signup creates a new account: credential row plus profile document
func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validateCategoryFields(req); err != nil {
		return nil, err
	}

	if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Category:     req.Category,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.profiles.CreateProfile(ctx, profileFromSignup(user.UID, email, req)); err != nil {
		// Roll the credential row back so signup can be retried
		if delErr := s.repo.DeleteUser(ctx, user.UID); delErr != nil {
			log.Printf("Failed to roll back auth row for %s: %v", user.UID, delErr)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *service) validateCategoryFields(req *SignupRequest) error {
	switch req.Category {
	case string(profile.CategoryApplicant):
		if req.FirstName == "" {
			return ErrMissingName
		}
		if req.Age < s.config.MinAge {
			return ErrUnderage
		}
	case string(profile.CategoryCompany):
		if req.CompanyName == "" {
			return ErrMissingName
		}
	}
	return nil
}

func profileFromSignup(uid, email string, req *SignupRequest) *profile.Profile {
	return &profile.Profile{
		UID:      uid,
		Category: profile.Category(req.Category),
		Email:    email,
		Phone:    req.Phone,
		Age:      req.Age,

		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Skills:    req.Skills,

		CompanyName:    req.CompanyName,
		HRFirstName:    req.HRFirstName,
		HRLastName:     req.HRLastName,
		CompanyAddress: req.CompanyAddress,
	}
}

// Signin verifies credentials, throttled per email via Redis
func (s *service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkLoginAttempts(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.recordFailedLogin(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, email)
		return nil, ErrInvalidCredentials
	}

	s.clearLoginAttempts(ctx, email)
	return s.issueTokens(ctx, user)
}

func loginAttemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func (s *service) checkLoginAttempts(ctx context.Context, email string) error {
	if s.redis == nil {
		return nil
	}

	count, err := s.redis.Get(ctx, loginAttemptsKey(email)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("Failed to read login attempts for %s: %v", email, err)
		return nil // Redis down must not lock everyone out
	}
	if count >= s.config.LoginAttemptsMax {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *service) recordFailedLogin(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}

	key := loginAttemptsKey(email)
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		log.Printf("Failed to record login attempt for %s: %v", email, err)
		return
	}
	s.redis.Expire(ctx, key, s.config.LoginAttemptsWindow)
}

func (s *service) clearLoginAttempts(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, loginAttemptsKey(email))
}

// issueTokens generates an access/refresh pair and records the session
func (s *service) issueTokens(ctx context.Context, user *User) (*AuthResponse, error) {
	now := time.Now()

	accessToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.UID,
		Email:     user.Email,
		Category:  user.Category,
		Type:      "access",
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "workswipe",
		Subject:   user.UID,
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.UID,
		Email:     user.Email,
		Category:  user.Category,
		Type:      "refresh",
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "workswipe",
		Subject:   user.UID,
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserUID:      user.UID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.config.RefreshTokenExpiry),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.config.AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// RefreshToken rotates a refresh token: the old session is revoked and a
// fresh pair is issued
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUID(ctx, session.UserUID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSessionByRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// ValidateToken parses and verifies a token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, s.config.JWTSecret)
}

// Logout revokes a single session
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSessionByRefreshToken(ctx, refreshToken)
}

// LogoutAllDevices revokes every session for a user
func (s *service) LogoutAllDevices(ctx context.Context, uid string) error {
	return s.repo.DeleteUserSessions(ctx, uid)
}

// GetUserByUID retrieves an auth record
func (s *service) GetUserByUID(ctx context.Context, uid string) (*User, error) {
	return s.repo.GetUserByUID(ctx, uid)
}

// DeleteAccount removes the credential row, all sessions, and the
// profile document
func (s *service) DeleteAccount(ctx context.Context, uid string) error {
	if err := s.profiles.DeleteProfile(ctx, uid); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		return err
	}
	return s.repo.DeleteUser(ctx, uid)
}
