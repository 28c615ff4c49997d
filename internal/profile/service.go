// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrImageTooLarge      = errors.New("image size exceeds limit")
)

const maxImageSize = 5 << 20 // 5MB

// Service defines the profile service interface
type Service interface {
	// Profile CRUD
	CreateProfile(ctx context.Context, p *Profile) error
	GetMyProfile(ctx context.Context, uid string) (*Profile, error)
	GetProfile(ctx context.Context, uid string) (*Profile, error)
	UpdateProfile(ctx context.Context, uid string, req *UpdateProfileRequest) (*Profile, error)

	// Images
	UploadProfileImage(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader) (string, error)
	UploadBannerImage(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader) (string, error)

	// Listing, used by the feed builder and the admin module
	ListByCategory(ctx context.Context, category Category) ([]*Profile, error)
	CountByCategory(ctx context.Context, category Category) (int, error)
	DeleteProfile(ctx context.Context, uid string) error
}

type service struct {
	repo   Repository
	upload UploadService
	cache  *Cache
}

// NewService creates a new profile service
func NewService(repo Repository, upload UploadService, cache *Cache) Service {
	return &service{
		repo:   repo,
		upload: upload,
		cache:  cache,
	}
}

// CreateProfile writes the initial users/{uid} document at signup
func (s *service) CreateProfile(ctx context.Context, p *Profile) error {
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, p.UID)
	return nil
}

// GetMyProfile returns the caller's own profile, cache first
func (s *service) GetMyProfile(ctx context.Context, uid string) (*Profile, error) {
	if cached := s.cache.Get(ctx, uid); cached != nil {
		return cached, nil
	}

	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// GetProfile returns another user's profile, always fresh
func (s *service) GetProfile(ctx context.Context, uid string) (*Profile, error) {
	return s.repo.Get(ctx, uid)
}

// UpdateProfile merges the request fields into the profile document
func (s *service) UpdateProfile(ctx context.Context, uid string, req *UpdateProfileRequest) (*Profile, error) {
	fields := req.Fields()
	if len(fields) == 0 {
		return s.repo.Get(ctx, uid)
	}

	if err := s.repo.Update(ctx, uid, fields); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, uid)

	return s.repo.Get(ctx, uid)
}

// UploadProfileImage stores the image and patches its URL onto the profile
func (s *service) UploadProfileImage(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.uploadImage(ctx, uid, file, header, "profiles", "profileImage")
}

// UploadBannerImage stores the banner and patches its URL onto the profile
func (s *service) UploadBannerImage(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.uploadImage(ctx, uid, file, header, "banners", "bannerImage")
}

func (s *service) uploadImage(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader, folder, field string) (string, error) {
	if err := validateImage(header); err != nil {
		return "", err
	}

	url, err := s.upload.UploadFile(ctx, file, header, folder)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.repo.Update(ctx, uid, map[string]interface{}{field: url}); err != nil {
		return "", err
	}
	s.cache.Invalidate(ctx, uid)

	return url, nil
}

func (s *service) ListByCategory(ctx context.Context, category Category) ([]*Profile, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *service) CountByCategory(ctx context.Context, category Category) (int, error) {
	return s.repo.CountByCategory(ctx, category)
}

// DeleteProfile removes the profile document and its cached snapshot
func (s *service) DeleteProfile(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, uid)
	return nil
}

// validateImage checks the extension and declared size
func validateImage(header *multipart.FileHeader) error {
	if header.Size > maxImageSize {
		return ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return nil
	}
	return ErrInvalidImageFormat
}
