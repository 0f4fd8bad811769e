package database

import (
	"fmt"
	"time"

	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/model"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens a GORM connection with the driver named by DB_DRIVER
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	dialector, err := gormDialector(env)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(gormLogLevel(env))

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logrus.WithError(err).WithField("driver", env.DB_DRIVER).Error("unable to connect with GORM")
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.WithField("driver", env.DB_DRIVER).Info("connected to database with GORM")

	return &GORMStore{db: db}, nil
}

func gormDialector(env *config.EnvironmentVariable) (gorm.Dialector, error) {
	switch env.DB_DRIVER {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.DB_HOST,
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_NAME,
			env.DB_PORT,
			env.DB_SSL_MODE,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(env.DB_PATH)), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_HOST,
			env.DB_PORT,
			env.DB_NAME,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q for the gorm backend", env.DB_DRIVER)
	}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	logrus.Info("running GORM AutoMigrate")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Professor{},
		&model.Subject{},

		// Events and their children
		&model.Event{},
		&model.EventTag{},
		&model.Attachment{},
		&model.Comment{},

		// Projects
		&model.ResearchProject{},
		&model.ExtensionProject{},
	)
	if err != nil {
		logrus.WithError(err).Error("AutoMigrate failed")
		return err
	}

	logrus.Info("GORM AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	logrus.Info("closing GORM connection")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogLevel keeps SQL tracing to development and errors only in production
func gormLogLevel(env *config.EnvironmentVariable) logger.LogLevel {
	switch {
	case env.IsProduction():
		return logger.Error
	case env.GO_ENV == "development":
		return logger.Info
	default:
		return logger.Warn
	}
}

// GetDB returns the GORM DB instance
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *GORMStore) Users() UserRepository {
	return gormUserRepository{newGormRepository[model.User](s.db, UserTable, "id")}
}

func (s *GORMStore) Professors() ProfessorRepository {
	return gormProfessorRepository{newGormRepository[model.Professor](s.db, ProfessorTable, "id")}
}

func (s *GORMStore) Subjects() SubjectRepository {
	return newGormRepository[model.Subject](s.db, SubjectTable, "id")
}

func (s *GORMStore) ResearchProjects() ProjectRepository[model.ResearchProject] {
	return newGormRepository[model.ResearchProject](s.db, ResearchProjectTable, "created_at DESC, id DESC")
}

func (s *GORMStore) ExtensionProjects() ProjectRepository[model.ExtensionProject] {
	return newGormRepository[model.ExtensionProject](s.db, ExtensionProjectTable, "created_at DESC, id DESC")
}

func (s *GORMStore) Events() EventRepository {
	return &gormEventRepository{db: s.db}
}

func (s *GORMStore) Comments() CommentRepository {
	return &gormCommentRepository{db: s.db}
}
