package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/tramatch/tramatch-web/internal/core"
	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/ports"
)

// ErrWrongPassword is returned by ChangePassword when the current password does not match.
var ErrWrongPassword = errors.New("current password is incorrect")

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo          core.UserRepository
	Notifications core.NotificationRepository // Optional: approval notices are skipped when nil
	Sessions      ports.SessionStore          // Optional: sessions are not revoked when nil
	Logger        *slog.Logger
}

// UserService manages company accounts.
type UserService struct {
	repo          core.UserRepository
	notifications core.NotificationRepository
	sessions      ports.SessionStore
	logger        *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo:          opts.Repo,
		notifications: opts.Notifications,
		sessions:      opts.Sessions,
		logger:        logger.With("component", "user_service"),
	}
}

// Register validates the sign-up form and creates an unapproved account.
// Validation failures are returned as model.FieldErrors.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, core.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         string(domainauth.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UserListResult is a page of accounts plus the unpaged total.
type UserListResult struct {
	Users []*model.User
	Total int
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, opts model.UsersListOptions) (*UserListResult, error) {
	users, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserListResult{Users: users, Total: total}, nil
}

// SetApproved changes the approval flag. Approving notifies the user, and
// any change signs the user out everywhere so the next request sees it.
func (s *UserService) SetApproved(ctx context.Context, id string, approved bool) error {
	if err := s.repo.SetApproved(ctx, id, approved); err != nil {
		return fmt.Errorf("set approved: %w", err)
	}
	if approved && s.notifications != nil {
		_, err := s.notifications.Create(ctx, id, core.CreateNotificationParams{
			Type:    model.NotificationApproval,
			Title:   "アカウントが承認されました",
			Message: "TRA MATCHのすべての機能をご利用いただけます。",
		})
		if err != nil {
			s.logger.WarnContext(ctx, "approval notification failed", "user_id", id, "error", err)
		}
	}
	s.revoke(ctx, id)
	return nil
}

// SetRole changes the role. Only "user" and "admin" are accepted.
func (s *UserService) SetRole(ctx context.Context, id, role string) error {
	if role != string(domainauth.RoleUser) && role != string(domainauth.RoleAdmin) {
		return apperrors.ValidationField("role", "role must be user or admin")
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	s.revoke(ctx, id)
	return nil
}

// UpdateProfile saves the settings form.
func (s *UserService) UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) (*model.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateProfile(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
// Accounts created through SSO have no current password and may set one.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	if len([]rune(next)) < model.MinPasswordLength {
		return model.FieldErrors{"new_password": "パスワードは8文字以上で入力してください"}
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Partners lists the companies the user has completed cargo with.
func (s *UserService) Partners(ctx context.Context, userID string) ([]*model.User, error) {
	partners, err := s.repo.Partners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

func (s *UserService) revoke(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.DeleteUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "revoke sessions failed", "user_id", userID, "error", err)
	}
}
