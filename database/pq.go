package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/model"
	queryHelper "github.com/portal-eventos/portal-api/utils/query"
	"github.com/sirupsen/logrus"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLStore talks to the database through hand-written statements. Statements are written
// with `?` placeholders and rebound for the dialect before they are sent.
type SQLStore struct {
	db      *sql.DB
	dialect string
	bind    queryHelper.Placeholder
}

// Start opens a database/sql connection with the dialect named by DB_DRIVER
func Start(env *config.EnvironmentVariable) (*SQLStore, error) {
	var (
		driverName string
		dsn        string
		bind       queryHelper.Placeholder
	)

	switch env.DB_DRIVER {
	case DialectPostgres, "":
		driverName = "postgres"
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			env.DB_HOST, env.DB_PORT, env.DB_USER_NAME, env.DB_PASSWORD, env.DB_NAME, env.DB_SSL_MODE)
		bind = queryHelper.Dollar
	case DialectSQLite:
		driverName = "sqlite3"
		dsn = sqliteDSN(env.DB_PATH)
		bind = queryHelper.Question
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q for the sql backend", env.DB_DRIVER)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		logrus.WithError(err).WithField("driver", driverName).Error("unable to open database")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	dialect := env.DB_DRIVER
	if dialect == "" {
		dialect = DialectPostgres
	}

	logrus.WithField("driver", driverName).Info("connected to database with database/sql")
	return &SQLStore{db: db, dialect: dialect, bind: bind}, nil
}

func (s *SQLStore) Init() error {
	logrus.WithField("dialect", s.dialect).Info("initializing schema")
	return s.Initialize()
}

func (s *SQLStore) Close() error {
	logrus.Info("closing database/sql connection")
	return s.db.Close()
}

// GetDB returns the *sql.DB handle
func (s *SQLStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *SQLStore) HealthCheck() error {
	return s.db.Ping()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLStore) rebind(query string) string {
	return queryHelper.Rebind(s.bind, query)
}

// exec runs a statement and reports the affected rows
func (s *SQLStore) exec(ctx context.Context, q querier, query string, args ...interface{}) (int64, error) {
	result, err := q.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return 0, translateError(err)
	}
	return result.RowsAffected()
}

// insert runs an INSERT and returns the generated id
func (s *SQLStore) insert(ctx context.Context, q querier, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := q.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Warn("rollback failed")
		}
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Users() UserRepository {
	return sqlUserRepository{&sqlRepository[model.User]{store: s, entity: userEntity}}
}

func (s *SQLStore) Professors() ProfessorRepository {
	return sqlProfessorRepository{&sqlRepository[model.Professor]{store: s, entity: professorEntity}}
}

func (s *SQLStore) Subjects() SubjectRepository {
	return &sqlRepository[model.Subject]{store: s, entity: subjectEntity}
}

func (s *SQLStore) ResearchProjects() ProjectRepository[model.ResearchProject] {
	return &sqlRepository[model.ResearchProject]{store: s, entity: researchProjectEntity}
}

func (s *SQLStore) ExtensionProjects() ProjectRepository[model.ExtensionProject] {
	return &sqlRepository[model.ExtensionProject]{store: s, entity: extensionProjectEntity}
}

func (s *SQLStore) Events() EventRepository {
	return &sqlEventRepository{store: s}
}

func (s *SQLStore) Comments() CommentRepository {
	return &sqlCommentRepository{store: s}
}
