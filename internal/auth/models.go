// internal/auth/models.go
// Data structures for the authentication system. Credentials live in
// Postgres, the profile document itself lives in the document store.

package auth

import (
	"time"
)

// User is an authentication record. The uid doubles as the document ID
// of the user's profile in the store.
type User struct {
	UID          string    `json:"uid" db:"uid"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Category     string    `json:"category" db:"category"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session is an active refresh token. Stored in the database for
// multi-device support and server-side revocation.
type Session struct {
	ID           int64     `json:"id" db:"id"`
	UserUID      string    `json:"user_uid" db:"user_uid"`
	RefreshToken string    `json:"refresh_token" db:"refresh_token"`
	DeviceInfo   *string   `json:"device_info" db:"device_info"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SignupRequest is what the client sends to create an account.
// Category-specific fields are checked in the service, validator tags
// cover only what applies to everyone.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Category        string `json:"category" validate:"required,oneof=applicant company"`
	Phone           string `json:"phone" validate:"omitempty,e164"`

	// Applicant fields
	Age       int      `json:"age" validate:"omitempty,gte=16,lte=100"`
	FirstName string   `json:"firstName" validate:"omitempty,max=100"`
	LastName  string   `json:"lastName" validate:"omitempty,max=100"`
	Address   string   `json:"address" validate:"omitempty,max=255"`
	Skills    []string `json:"skills,omitempty"`

	// Company fields
	CompanyName    string `json:"companyName" validate:"omitempty,max=100"`
	HRFirstName    string `json:"hrFirstName" validate:"omitempty,max=100"`
	HRLastName     string `json:"hrLastName" validate:"omitempty,max=100"`
	CompanyAddress string `json:"companyAddress" validate:"omitempty,max=255"`
}

// SigninRequest handles email login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest to get a new access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is what we send back after successful authentication
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
