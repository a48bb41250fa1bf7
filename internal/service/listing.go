package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

// Actor identifies who is performing a listing operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// CanEdit reports whether the actor may modify a listing owned by ownerID.
func (a Actor) CanEdit(ownerID string) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == ownerID)
}

// ListingServiceOptions groups dependencies for ListingService.
type ListingServiceOptions struct {
	Cargo         core.CargoRepository
	Trucks        core.TruckRepository
	Notifications core.NotificationRepository // Optional: partner notices are skipped when nil
	Logger        *slog.Logger
}

// ListingService implements the cargo and truck boards.
type ListingService struct {
	cargo         core.CargoRepository
	trucks        core.TruckRepository
	notifications core.NotificationRepository
	logger        *slog.Logger
}

// NewListingService constructs a new ListingService.
func NewListingService(opts ListingServiceOptions) *ListingService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		cargo:         opts.Cargo,
		trucks:        opts.Trucks,
		notifications: opts.Notifications,
		logger:        logger.With("component", "listing_service"),
	}
}

// CargoPage is a page of cargo listings plus the unpaged total.
type CargoPage struct {
	Items []*model.CargoListing
	Total int
}

// TruckPage is a page of truck listings plus the unpaged total.
type TruckPage struct {
	Items []*model.TruckListing
	Total int
}

// CreateCargo validates and stores a new cargo listing owned by the actor.
func (s *ListingService) CreateCargo(ctx context.Context, actor Actor, in model.CargoInput) (*model.CargoListing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.cargo.Create(ctx, actor.UserID, in)
	if err != nil {
		return nil, fmt.Errorf("create cargo: %w", err)
	}
	return c, nil
}

// UpdateCargo edits a cargo listing the actor owns.
func (s *ListingService) UpdateCargo(
	ctx context.Context,
	actor Actor,
	id string,
	in model.CargoInput,
) (*model.CargoListing, error) {
	if _, err := s.ownedCargo(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.cargo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update cargo: %w", err)
	}
	return c, nil
}

// GetCargo returns one cargo listing.
func (s *ListingService) GetCargo(ctx context.Context, id string) (*model.CargoListing, error) {
	return s.cargo.GetByID(ctx, id)
}

// ListCargo returns a filtered page of cargo listings.
func (s *ListingService) ListCargo(ctx context.Context, f model.ListingFilter) (*CargoPage, error) {
	items, err := s.cargo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list cargo: %w", err)
	}
	total, err := s.cargo.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count cargo: %w", err)
	}
	return &CargoPage{Items: items, Total: total}, nil
}

// SetCargoStatus stores any non-empty status. When a partner is named it is
// recorded on the listing and notified.
func (s *ListingService) SetCargoStatus(ctx context.Context, actor Actor, id, status, partnerID string) error {
	status, ok := model.NormalizeStatus(status)
	if !ok {
		return apperrors.ValidationField("status", "status is required")
	}
	c, err := s.ownedCargo(ctx, actor, id)
	if err != nil {
		return err
	}
	if partnerID == c.UserID {
		return apperrors.ValidationField("partner_id", "partner must be another company")
	}
	p := core.UpdateStatusParams{ID: id, Status: status}
	if partnerID != "" {
		p.PartnerID = &partnerID
	}
	if err := s.cargo.UpdateStatus(ctx, p); err != nil {
		return fmt.Errorf("update cargo status: %w", err)
	}
	if partnerID != "" {
		s.notify(ctx, partnerID, "取引先に登録されました",
			fmt.Sprintf("%sさんの荷物「%s」の取引先として登録されました。", c.CompanyName, c.Title))
	}
	return nil
}

// CreateTruck validates and stores a new truck listing owned by the actor.
func (s *ListingService) CreateTruck(ctx context.Context, actor Actor, in model.TruckInput) (*model.TruckListing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.trucks.Create(ctx, actor.UserID, in)
	if err != nil {
		return nil, fmt.Errorf("create truck: %w", err)
	}
	return t, nil
}

// UpdateTruck edits a truck listing the actor owns.
func (s *ListingService) UpdateTruck(
	ctx context.Context,
	actor Actor,
	id string,
	in model.TruckInput,
) (*model.TruckListing, error) {
	if _, err := s.ownedTruck(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.trucks.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update truck: %w", err)
	}
	return t, nil
}

// GetTruck returns one truck listing.
func (s *ListingService) GetTruck(ctx context.Context, id string) (*model.TruckListing, error) {
	return s.trucks.GetByID(ctx, id)
}

// ListTrucks returns a filtered page of truck listings.
func (s *ListingService) ListTrucks(ctx context.Context, f model.ListingFilter) (*TruckPage, error) {
	items, err := s.trucks.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	total, err := s.trucks.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count trucks: %w", err)
	}
	return &TruckPage{Items: items, Total: total}, nil
}

// SetTruckStatus stores any non-empty status on a truck listing.
func (s *ListingService) SetTruckStatus(ctx context.Context, actor Actor, id, status string) error {
	status, ok := model.NormalizeStatus(status)
	if !ok {
		return apperrors.ValidationField("status", "status is required")
	}
	if _, err := s.ownedTruck(ctx, actor, id); err != nil {
		return err
	}
	if err := s.trucks.UpdateStatus(ctx, core.UpdateStatusParams{ID: id, Status: status}); err != nil {
		return fmt.Errorf("update truck status: %w", err)
	}
	return nil
}

func (s *ListingService) ownedCargo(ctx context.Context, actor Actor, id string) (*model.CargoListing, error) {
	c, err := s.cargo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(c.UserID) {
		return nil, apperrors.Forbidden("only the owner can change this listing")
	}
	return c, nil
}

func (s *ListingService) ownedTruck(ctx context.Context, actor Actor, id string) (*model.TruckListing, error) {
	t, err := s.trucks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEdit(t.UserID) {
		return nil, apperrors.Forbidden("only the owner can change this listing")
	}
	return t, nil
}

func (s *ListingService) notify(ctx context.Context, userID, title, msg string) {
	if s.notifications == nil {
		return
	}
	_, err := s.notifications.Create(ctx, userID, core.CreateNotificationParams{
		Type:    model.NotificationListing,
		Title:   title,
		Message: msg,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "listing notification failed", "user_id", userID, "error", err)
	}
}
