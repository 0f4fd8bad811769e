package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		logrus.WithError(err).Warn(".env file could not be loaded, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read configuration")
	}
	utils.InitLogger(env.LOG_LEVEL)

	store, err := database.Open(env)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database tables")
	}

	hasher, err := auth.NewPasswordHasher(env.PASSWORD_MODE)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid PASSWORD_MODE")
	}

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Portal - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	seed := database.ProfessorSeed{
		Name:     env.SEED_PROFESSOR_NAME,
		Email:    env.SEED_PROFESSOR_EMAIL,
		Password: env.SEED_PROFESSOR_PASSWORD,
		Course:   env.SEED_PROFESSOR_COURSE,
	}
	if err := database.NewSeeder(store, hasher).SeedAll(context.Background(), seed); err != nil {
		store.Close()
		logrus.WithError(err).Fatal("❌ Seeding failed")
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
	fmt.Println("Professor created from SEED_PROFESSOR_EMAIL and SEED_PROFESSOR_PASSWORD environment variables.")
	fmt.Println("If the password is not set, professor creation is skipped.")
}
