package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/sirupsen/logrus"
)

// ProfessorSeed is the coordinating professor created by SeedAll
type ProfessorSeed struct {
	Name     string
	Email    string
	Password string
	Course   string
}

// Seeder handles database seeding operations
type Seeder struct {
	store  Storage
	hasher auth.PasswordHasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(store Storage, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{store: store, hasher: hasher}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(ctx context.Context, professor ProfessorSeed) error {
	logrus.Info("🌱 Starting database seeding...")

	if err := s.SeedProfessor(ctx, professor); err != nil {
		return fmt.Errorf("failed to seed professor: %w", err)
	}

	logrus.Info("✅ Database seeding completed successfully!")
	return nil
}

// SeedProfessor creates the professor, or resets name, course and password when the
// email is already registered.
func (s *Seeder) SeedProfessor(ctx context.Context, seed ProfessorSeed) error {
	if seed.Email == "" || seed.Password == "" {
		logrus.Warn("⚠️  SEED_PROFESSOR_EMAIL and SEED_PROFESSOR_PASSWORD not set, skipping professor creation")
		return nil
	}

	passwordHash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	professors := s.store.Professors()
	existing, err := professors.GetByEmail(ctx, seed.Email)
	switch {
	case errors.Is(err, ErrNotFound):
		professor := &model.Professor{
			Name:     seed.Name,
			Email:    seed.Email,
			Password: passwordHash,
			Course:   seed.Course,
		}
		if err := professors.Create(ctx, professor); err != nil {
			return err
		}
		logrus.WithField("email", professor.Email).Infof("✅ Created professor %d", professor.ID)
		return nil

	case err != nil:
		return err
	}

	_, err = professors.Update(ctx, int64(existing.ID), []query.Assignment{
		{Column: "nome", Value: seed.Name},
		{Column: "senha", Value: passwordHash},
		{Column: "curso", Value: seed.Course},
	})
	if err != nil {
		return err
	}

	logrus.WithField("email", existing.Email).Infof("🔁 Updated professor %d", existing.ID)
	return nil
}
