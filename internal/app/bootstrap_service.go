package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// AdminSeed configures the account EnsureAdminAccount creates.
type AdminSeed struct {
	Username string
	// Password is used when set; otherwise a random one is generated and returned once.
	Password string
	// Cost is the bcrypt cost. Zero means bcrypt.DefaultCost.
	Cost int
}

// BootstrapServiceImpl implements the BootstrapService interface.
type BootstrapServiceImpl struct {
	rt       Runtime
	statuses secondary.StatusRepository
	users    secondary.UserRepository
	seed     AdminSeed
}

// NewBootstrapService creates a new BootstrapService with injected dependencies.
func NewBootstrapService(rt Runtime, statuses secondary.StatusRepository, users secondary.UserRepository, seed AdminSeed) *BootstrapServiceImpl {
	if strings.TrimSpace(seed.Username) == "" {
		seed.Username = "admin"
	}
	if seed.Cost == 0 {
		seed.Cost = bcrypt.DefaultCost
	}
	return &BootstrapServiceImpl{rt: rt, statuses: statuses, users: users, seed: seed}
}

var _ primary.BootstrapService = (*BootstrapServiceImpl)(nil)

// EnsureDefaultStatuses inserts the catalog entries that are missing by name.
func (s *BootstrapServiceImpl) EnsureDefaultStatuses(ctx context.Context) (int, error) {
	inserted := 0
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		for _, st := range db.DefaultStatuses() {
			_, err := s.statuses.GetByName(ctx, st.Name)
			if err == nil {
				continue
			}
			if !errs.IsKind(err, errs.KindNotFound) {
				return fmt.Errorf("failed to look up status %q: %w", st.Name, err)
			}
			entry := st
			if err := s.statuses.Create(ctx, &entry); err != nil {
				return fmt.Errorf("failed to seed status %q: %w", st.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.rt.logger().Info("status catalog seeded", "inserted", inserted)
	}
	return inserted, nil
}

// EnsureAdminAccount guarantees one active Admin account exists.
func (s *BootstrapServiceImpl) EnsureAdminAccount(ctx context.Context) (*primary.AdminAccountResult, error) {
	result := &primary.AdminAccountResult{Username: s.seed.Username}
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		admins, err := s.users.CountByRole(ctx, access.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins > 0 {
			return nil
		}

		password := s.seed.Password
		generated := password == ""
		if generated {
			if password, err = generatePassword(); err != nil {
				return err
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.seed.Cost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return errs.Validation("user", "admin password is too long")
			}
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.User{
			Username:           s.seed.Username,
			PasswordHash:       string(hash),
			FirstName:          "System",
			LastName:           "Administrator",
			Role:               access.RoleAdmin,
			IsActive:           true,
			MustChangePassword: generated,
		}
		if err := admin.Validate(); err != nil {
			return err
		}
		if err := s.users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		result.Created = true
		if generated {
			result.GeneratedPassword = password
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Created {
		if result.GeneratedPassword != "" {
			// The password itself is handed to the caller to print once; the log redacts it.
			s.rt.logger().Warn("admin account created with a generated password; it must be changed at first login",
				"username", result.Username, "reset_required", true)
		} else {
			s.rt.logger().Info("admin account created", "username", result.Username)
		}
	}
	return result, nil
}

// ListStatuses lists the status catalog in display order.
func (s *BootstrapServiceImpl) ListStatuses(ctx context.Context) ([]*models.Status, error) {
	return s.statuses.List(ctx)
}

func generatePassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
