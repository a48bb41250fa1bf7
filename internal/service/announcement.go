package service

import (
	"context"
	"fmt"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

// landingAnnouncements is how many published announcements the public pages show.
const landingAnnouncements = 5

// AnnouncementServiceOptions groups dependencies for AnnouncementService.
type AnnouncementServiceOptions struct {
	Repo core.AnnouncementRepository
}

// AnnouncementService manages public announcements.
type AnnouncementService struct {
	repo core.AnnouncementRepository
}

// NewAnnouncementService constructs a new AnnouncementService.
func NewAnnouncementService(opts AnnouncementServiceOptions) *AnnouncementService {
	return &AnnouncementService{repo: opts.Repo}
}

// Create validates and stores an announcement.
func (s *AnnouncementService) Create(ctx context.Context, in model.AnnouncementInput) (*model.Announcement, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	a, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return a, nil
}

// Published returns the newest published announcements for the landing page and dashboard.
func (s *AnnouncementService) Published(ctx context.Context) ([]*model.Announcement, error) {
	return s.repo.List(ctx, true, landingAnnouncements)
}

// All returns every announcement for the admin screen.
func (s *AnnouncementService) All(ctx context.Context) ([]*model.Announcement, error) {
	return s.repo.List(ctx, false, 0)
}

// SetPublished publishes or hides an announcement.
func (s *AnnouncementService) SetPublished(ctx context.Context, id string, published bool) error {
	return s.repo.SetPublished(ctx, id, published)
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
