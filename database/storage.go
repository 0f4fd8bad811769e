package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
)

const (
	BackendGORM = "gorm"
	BackendSQL  = "sql"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// Raw handle: *gorm.DB for GORMStore, *sql.DB for SQLStore
	GetDB() interface{}

	Users() UserRepository
	Events() EventRepository
	Comments() CommentRepository
	Professors() ProfessorRepository
	ResearchProjects() ProjectRepository[model.ResearchProject]
	ExtensionProjects() ProjectRepository[model.ExtensionProject]
	Subjects() SubjectRepository
}

// Repository is the id-keyed CRUD contract shared by every top-level entity.
//
// Update applies the assignments plus the modification timestamp and returns the row as
// stored afterwards. Delete reports how many rows went away, so deleting a missing id is
// not an error.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id int64, assignments []query.Assignment) (*T, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type UserRepository interface {
	Repository[model.User]
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type ProfessorRepository interface {
	Repository[model.Professor]
	GetByEmail(ctx context.Context, email string) (*model.Professor, error)
}

type SubjectRepository interface {
	Repository[model.Subject]
}

type ProjectRepository[T model.Project] interface {
	Repository[T]
}

// EventUpdate is a partial update of an event. A nil set leaves the stored children
// alone, a non-nil set (even empty) replaces them.
type EventUpdate struct {
	Fields      []query.Assignment
	Tags        *[]int
	Attachments *[]string
}

// EventRepository writes an event and its tag and attachment sets in one transaction.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id int64) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, id int64, update EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CommentRepository scopes every comment to its event: a comment id looked up under
// another event does not exist.
type CommentRepository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]model.Comment, error)
	Get(ctx context.Context, eventID, commentID int64) (*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	Update(ctx context.Context, eventID, commentID int64, assignments []query.Assignment) (*model.Comment, error)
	Delete(ctx context.Context, eventID, commentID int64) (int64, error)
}

// Open connects the backend selected by DB_BACKEND.
func Open(env *config.EnvironmentVariable) (Storage, error) {
	switch env.DB_BACKEND {
	case BackendGORM, "":
		return StartGORM(env)
	case BackendSQL:
		return Start(env)
	default:
		return nil, fmt.Errorf("unknown DB_BACKEND %q (want %q or %q)", env.DB_BACKEND, BackendGORM, BackendSQL)
	}
}

// sqliteDSN enables foreign keys, which SQLite leaves off per connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
