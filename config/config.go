package config

import (
	"errors"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string `env:"GO_ENV,default=development"`
	PORT   int    `env:"PORT,default=8080"`

	// Database
	DB_BACKEND   string `env:"DB_BACKEND,default=gorm"`    // gorm | sql
	DB_DRIVER    string `env:"DB_DRIVER,default=postgres"` // postgres | sqlite | mysql (gorm only)
	DB_USER_NAME string `env:"DB_USER_NAME"`
	DB_PASSWORD  string `env:"DB_PASSWORD"`
	DB_NAME      string `env:"DB_NAME"`
	DB_HOST      string `env:"DB_HOST,default=localhost"`
	DB_PORT      string `env:"DB_PORT,default=5432"`
	DB_SSL_MODE  string `env:"DB_SSL_MODE,default=disable"`
	DB_PATH      string `env:"DB_PATH,default=portal.db"`

	// HTTP
	ALLOWED_ORIGINS     string `env:"ALLOWED_ORIGINS,default=*"`
	RATE_LIMIT_REQUESTS int    `env:"RATE_LIMIT_REQUESTS,default=0"`
	BODY_LIMIT_MB       int    `env:"BODY_LIMIT_MB,default=50"`
	PING_MESSAGE        string `env:"PING_MESSAGE,default=ping"`

	// Redis Configuration
	REDIS_URL string `env:"REDIS_URL"`

	// Accounts
	PASSWORD_MODE string `env:"PASSWORD_MODE,default=bcrypt"` // bcrypt | plaintext

	LOG_LEVEL string `env:"LOG_LEVEL,default=info"`

	// Seeding (cmd/seed)
	SEED_PROFESSOR_NAME     string `env:"SEED_PROFESSOR_NAME,default=humberto"`
	SEED_PROFESSOR_EMAIL    string `env:"SEED_PROFESSOR_EMAIL,default=humberto@sga.pucminas.br"`
	SEED_PROFESSOR_PASSWORD string `env:"SEED_PROFESSOR_PASSWORD"`
	SEED_PROFESSOR_COURSE   string `env:"SEED_PROFESSOR_COURSE,default=Análise e Desenvolvimento de Sistemas"`
}

func Get() (*EnvironmentVariable, error) {
	envVariables := &EnvironmentVariable{}

	if err := envdecode.Decode(envVariables); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, err
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}
