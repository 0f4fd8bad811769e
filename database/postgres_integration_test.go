package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	container testcontainers.Container
	env       *config.EnvironmentVariable
}

func TestPostgresIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run against a Postgres container")
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "portal",
			"POSTGRES_PASSWORD": "portal",
			"POSTGRES_DB":       "portal",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	s.env = &config.EnvironmentVariable{
		GO_ENV:       "test",
		DB_DRIVER:    DialectPostgres,
		DB_HOST:      host,
		DB_PORT:      port.Port(),
		DB_USER_NAME: "portal",
		DB_PASSWORD:  "portal",
		DB_NAME:      "portal",
		DB_SSL_MODE:  "disable",
	}
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *PostgresIntegrationSuite) open(backend string) Storage {
	env := *s.env
	env.DB_BACKEND = backend
	store, err := Open(&env)
	s.Require().NoError(err)
	s.Require().NoError(store.Init())
	return store
}

// The backends share one database, so the second Init runs against tables the first created.
func (s *PostgresIntegrationSuite) TestBackendsAgree() {
	ctx := context.Background()

	gormStore := s.open(BackendGORM)
	defer gormStore.Close()
	sqlStore := s.open(BackendSQL)
	defer sqlStore.Close()

	event := newEvent("Hackathon", time.Date(2024, 10, 20, 13, 0, 0, 0, time.UTC), []int{4, 13}, "regulamento.pdf")
	s.Require().NoError(gormStore.Events().Create(ctx, event))

	viaSQL, err := sqlStore.Events().Get(ctx, int64(event.ID))
	s.Require().NoError(err)
	s.Equal([]int{4, 13}, viaSQL.TagNumbers())
	s.True(event.Date.Equal(viaSQL.Date))

	tags := []int{17}
	_, err = sqlStore.Events().Update(ctx, int64(event.ID), EventUpdate{
		Fields: []query.Assignment{{Column: "titulo", Value: "Hackathon 2024"}},
		Tags:   &tags,
	})
	s.Require().NoError(err)

	viaGORM, err := gormStore.Events().Get(ctx, int64(event.ID))
	s.Require().NoError(err)
	s.Equal("Hackathon 2024", viaGORM.Title)
	s.Equal([]int{17}, viaGORM.TagNumbers())
}

func (s *PostgresIntegrationSuite) TestUniqueViolationIsConflict() {
	ctx := context.Background()

	for _, backend := range []string{BackendGORM, BackendSQL} {
		store := s.open(backend)

		email := backend + "@conflito.com"
		s.Require().NoError(store.Users().Create(ctx, &model.User{Name: "A", Email: email, Password: "x", Role: "aluno"}))
		err := store.Users().Create(ctx, &model.User{Name: "B", Email: email, Password: "x", Role: "aluno"})
		s.ErrorIs(err, ErrConflict, backend)

		s.NoError(store.Close())
	}
}
