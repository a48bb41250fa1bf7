package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/tramatch/tramatch-web/internal/core"
	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/service"
)

type approveOptions struct {
	User   string
	Revoke bool
}

func parseApproveFlags(args []string) (approveOptions, error) {
	fs := flag.NewFlagSet("approve-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := approveOptions{}
	fs.StringVar(&opts.User, "user", "", "Account id, username or email")
	fs.BoolVar(&opts.Revoke, "revoke", false, "Withdraw approval instead of granting it")
	if err := fs.Parse(args); err != nil {
		return approveOptions{}, err
	}
	opts.User = strings.TrimSpace(opts.User)
	if opts.User == "" {
		return approveOptions{}, errors.New("--user is required")
	}
	return opts, nil
}

func runApproveUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseApproveFlags(args)
	if err != nil {
		return err
	}
	return withAccounts(cmdCtx, defaultCommandTimeout, func(ctx context.Context, a *accountInfra) error {
		u, err := lookupUser(ctx, a.users, opts.User)
		if err != nil {
			return err
		}
		if err := a.service.SetApproved(ctx, u.ID, !opts.Revoke); err != nil {
			return err
		}
		state := "approved"
		if opts.Revoke {
			state = "unapproved"
		}
		return writef(cmdCtx.Out, "%s (%s, %s) is now %s\n", u.Username, u.CompanyName, u.ID, state)
	})
}

type setRoleOptions struct {
	User string
	Role string
}

func parseSetRoleFlags(args []string) (setRoleOptions, error) {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := setRoleOptions{}
	fs.StringVar(&opts.User, "user", "", "Account id, username or email")
	fs.StringVar(&opts.Role, "role", "", "New role: user or admin")
	if err := fs.Parse(args); err != nil {
		return setRoleOptions{}, err
	}
	opts.User = strings.TrimSpace(opts.User)
	opts.Role = strings.ToLower(strings.TrimSpace(opts.Role))
	if opts.User == "" {
		return setRoleOptions{}, errors.New("--user is required")
	}
	if opts.Role != string(domainauth.RoleUser) && opts.Role != string(domainauth.RoleAdmin) {
		return setRoleOptions{}, fmt.Errorf("--role must be %q or %q", domainauth.RoleUser, domainauth.RoleAdmin)
	}
	return opts, nil
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}
	return withAccounts(cmdCtx, defaultCommandTimeout, func(ctx context.Context, a *accountInfra) error {
		u, err := lookupUser(ctx, a.users, opts.User)
		if err != nil {
			return err
		}
		if u.Role == opts.Role {
			return writef(cmdCtx.Out, "%s already has role %s\n", u.Username, u.Role)
		}
		if err := a.service.SetRole(ctx, u.ID, opts.Role); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "%s: %s -> %s\n", u.Username, u.Role, opts.Role)
	})
}

type createAdminOptions struct {
	Username string
	Email    string
	Company  string
	Password string
}

func parseCreateAdminFlags(args []string) (createAdminOptions, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := createAdminOptions{}
	fs.StringVar(&opts.Username, "username", "", "Login name")
	fs.StringVar(&opts.Email, "email", "", "Email address")
	fs.StringVar(&opts.Company, "company", "TRA MATCH運営事務局", "Company name shown in the app")
	fs.StringVar(&opts.Password, "password", "", "Initial password (defaults to $TRAMATCH_ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return createAdminOptions{}, err
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("TRAMATCH_ADMIN_PASSWORD")
	}
	opts.Username = strings.TrimSpace(opts.Username)
	opts.Email = strings.TrimSpace(opts.Email)

	var missing []string
	if opts.Username == "" {
		missing = append(missing, "--username")
	}
	if opts.Email == "" {
		missing = append(missing, "--email")
	}
	if len([]rune(opts.Password)) < model.MinPasswordLength {
		missing = append(missing, fmt.Sprintf("--password (at least %d characters)", model.MinPasswordLength))
	}
	if len(missing) > 0 {
		return createAdminOptions{}, fmt.Errorf("missing or invalid: %s", strings.Join(missing, ", "))
	}
	return opts, nil
}

func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateAdminFlags(args)
	if err != nil {
		return err
	}
	hash, err := service.HashPassword(opts.Password)
	if err != nil {
		return err
	}
	return withAccounts(cmdCtx, defaultCommandTimeout, func(ctx context.Context, a *accountInfra) error {
		u, err := a.users.Create(ctx, core.CreateUserParams{
			Username:     opts.Username,
			Email:        opts.Email,
			PasswordHash: hash,
			CompanyName:  opts.Company,
			Role:         string(domainauth.RoleAdmin),
			Approved:     true,
		})
		if err != nil {
			return err
		}
		return writef(cmdCtx.Out, "created admin %s (%s)\n", u.Username, u.ID)
	})
}

// lookupUser resolves an account by email, username or id, in that order
// of likelihood for the reference given.
func lookupUser(ctx context.Context, users core.UserRepository, ref string) (*model.User, error) {
	if strings.Contains(ref, "@") {
		return users.GetByEmail(ctx, ref)
	}
	u, err := users.GetByUsername(ctx, ref)
	if err == nil || !apperrors.IsNotFound(err) {
		return u, err
	}
	if _, parseErr := uuid.Parse(ref); parseErr == nil {
		return users.GetByID(ctx, ref)
	}
	return nil, fmt.Errorf("no account matches %q: %w", ref, err)
}
