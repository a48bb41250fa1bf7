package core

import (
	"context"
	"time"

	"github.com/tramatch/tramatch-web/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on internal/data directly.

// CreateUserParams groups the columns written on sign-up.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	CompanyName  string
	ContactName  string
	Phone        string
	Address      string
	Role         string
	Approved     bool
}

// UserRepository defines the interface for company account data.
type UserRepository interface {
	Create(ctx context.Context, p CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	Count(ctx context.Context, opts model.UsersListOptions) (int, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	SetRole(ctx context.Context, id, role string) error
	UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// ApprovedIDs lists every approved user id, used for broadcasts.
	ApprovedIDs(ctx context.Context) ([]string, error)
	// Partners lists the counterparts of the user's completed cargo.
	Partners(ctx context.Context, userID string) ([]*model.User, error)
}

// UpdateStatusParams groups parameters for listing status changes.
type UpdateStatusParams struct {
	ID        string
	Status    string
	PartnerID *string
}

// CargoRepository defines the interface for cargo listing data.
type CargoRepository interface {
	Create(ctx context.Context, userID string, in model.CargoInput) (*model.CargoListing, error)
	Update(ctx context.Context, id string, in model.CargoInput) (*model.CargoListing, error)
	GetByID(ctx context.Context, id string) (*model.CargoListing, error)
	List(ctx context.Context, f model.ListingFilter) ([]*model.CargoListing, error)
	Count(ctx context.Context, f model.ListingFilter) (int, error)
	UpdateStatus(ctx context.Context, p UpdateStatusParams) error
	// CompletedBetween lists a user's completed cargo updated in [from, to).
	CompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.CargoListing, error)
}

// TruckRepository defines the interface for truck listing data.
type TruckRepository interface {
	Create(ctx context.Context, userID string, in model.TruckInput) (*model.TruckListing, error)
	Update(ctx context.Context, id string, in model.TruckInput) (*model.TruckListing, error)
	GetByID(ctx context.Context, id string) (*model.TruckListing, error)
	List(ctx context.Context, f model.ListingFilter) ([]*model.TruckListing, error)
	Count(ctx context.Context, f model.ListingFilter) (int, error)
	UpdateStatus(ctx context.Context, p UpdateStatusParams) error
}

// CreateNotificationParams describes one notification to insert.
type CreateNotificationParams struct {
	Type    string
	Title   string
	Message string
}

// NotificationRepository defines the interface for per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, userID string, p CreateNotificationParams) (*model.Notification, error)
	// CreateMany inserts the same notification for every user and returns the count.
	CreateMany(ctx context.Context, userIDs []string, p CreateNotificationParams) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// AnnouncementRepository defines the interface for public announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, in model.AnnouncementInput) (*model.Announcement, error)
	List(ctx context.Context, publishedOnly bool, limit int) ([]*model.Announcement, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

// StatsRepository defines the interface for back office reporting.
type StatsRepository interface {
	Overview(ctx context.Context) (*model.AdminStats, error)
	// MonthlyActivity returns one row per month for the last n months, oldest first.
	MonthlyActivity(ctx context.Context, months int) ([]*model.MonthlyActivity, error)
}
