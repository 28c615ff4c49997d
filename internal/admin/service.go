// internal/admin/service.go
// Back-office operations: platform stats, user listing and removal.

package admin

import (
	"context"

	"github.com/workswipe/workswipe-backend/internal/auth"
	"github.com/workswipe/workswipe-backend/internal/matching"
	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Stats summarizes the platform for the admin dashboard
type Stats struct {
	Applicants int `json:"applicants"`
	Companies  int `json:"companies"`
	Matches    int `json:"matches"`
	Online     int `json:"online"`
}

// Presence reports live connection counts. The chat hub implements it.
type Presence interface {
	GetActiveConnections() int
}

// Service defines the admin interface
type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, category profile.Category) ([]*profile.Profile, error)
	DeleteUser(ctx context.Context, uid string) error
}

type service struct {
	profiles profile.Service
	matches  matching.Repository
	accounts auth.Service
	presence Presence
}

// NewService creates a new admin service. presence may be nil.
func NewService(profiles profile.Service, matches matching.Repository, accounts auth.Service, presence Presence) Service {
	return &service{
		profiles: profiles,
		matches:  matches,
		accounts: accounts,
		presence: presence,
	}
}

// GetStats counts users per category and total matches
func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	applicants, err := s.profiles.CountByCategory(ctx, profile.CategoryApplicant)
	if err != nil {
		return nil, err
	}

	companies, err := s.profiles.CountByCategory(ctx, profile.CategoryCompany)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.CountMatches(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Applicants: applicants,
		Companies:  companies,
		Matches:    matches,
	}
	if s.presence != nil {
		stats.Online = s.presence.GetActiveConnections()
	}
	return stats, nil
}

// ListUsers returns every profile of one category
func (s *service) ListUsers(ctx context.Context, category profile.Category) ([]*profile.Profile, error) {
	return s.profiles.ListByCategory(ctx, category)
}

// DeleteUser removes a user's credentials, sessions and profile document
func (s *service) DeleteUser(ctx context.Context, uid string) error {
	return s.accounts.DeleteAccount(ctx, uid)
}
