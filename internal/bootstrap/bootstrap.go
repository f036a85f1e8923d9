// Package bootstrap seeds a fresh database with the accounts and demo
// catalog needed to exercise the API locally. Seeding is idempotent and
// gated behind BOOTSTRAP_SEED.
package bootstrap

import (
	"context"
	"errors"

	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
)

// Seeder provisions initial users and products
type Seeder struct {
	users    domain.UserRepository
	products domain.ProductRepository
	logger   *logger.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(users domain.UserRepository, products domain.ProductRepository, log *logger.Logger) *Seeder {
	return &Seeder{
		users:    users,
		products: products,
		logger:   log,
	}
}

// Seed creates the admin and test accounts plus a demo product if the
// catalog is empty. Existing rows are left untouched.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.ensureUser(ctx, "admin", []string{domain.RoleAdmin, domain.RoleUser}); err != nil {
		return err
	}
	if err := s.ensureUser(ctx, "testuser", []string{domain.RoleUser}); err != nil {
		return err
	}

	count, err := s.products.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug("Product catalog already seeded, skipping")
		return nil
	}

	description := "Over-ear headphones used to walk through the review flow."
	demo := &domain.Product{
		Name:        "Demo Headphones",
		Description: &description,
		Price:       129.99,
	}
	if err := s.products.Create(ctx, demo); err != nil {
		return err
	}

	s.logger.Infof("Seeded demo product %s", demo.ID)
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, username string, roles []string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	user := &domain.User{
		Username:    username,
		DisplayName: username,
		Roles:       roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Infof("Seeded user %s", username)
	return nil
}
