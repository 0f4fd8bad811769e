package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sqliteEnv(t *testing.T, backend string) *config.EnvironmentVariable {
	return &config.EnvironmentVariable{
		GO_ENV:     "test",
		DB_BACKEND: backend,
		DB_DRIVER:  DialectSQLite,
		DB_PATH:    filepath.Join(t.TempDir(), "portal.db"),
	}
}

// forEachBackend runs fn against a fresh SQLite database on every backend
func forEachBackend(t *testing.T, fn func(t *testing.T, store Storage)) {
	for _, backend := range []string{BackendGORM, BackendSQL} {
		t.Run(backend, func(t *testing.T) {
			store, err := Open(sqliteEnv(t, backend))
			require.NoError(t, err)
			require.NoError(t, store.Init())
			t.Cleanup(func() { _ = store.Close() })

			fn(t, store)
		})
	}
}

func strPtr(s string) *string { return &s }

func newUser(email string) *model.User {
	return &model.User{Name: "Ana", Email: email, Password: "x", Role: "aluno"}
}

func newEvent(title string, date time.Time, tags []int, attachments ...string) *model.Event {
	event := &model.Event{
		Title:       title,
		Date:        date,
		Responsible: "Prof. Humberto",
		Status:      model.DefaultEventStatus,
		Course:      model.DefaultEventCourse,
		EventType:   "Palestra",
		Modality:    "Presencial",
	}
	for _, n := range tags {
		event.Tags = append(event.Tags, model.EventTag{Number: n})
	}
	for _, name := range attachments {
		event.Attachments = append(event.Attachments, model.Attachment{Name: name})
	}
	return event
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(&config.EnvironmentVariable{DB_BACKEND: "mongo"})
	assert.Error(t, err)

	_, err = Open(&config.EnvironmentVariable{DB_BACKEND: BackendSQL, DB_DRIVER: "mysql"})
	assert.Error(t, err)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Error, gormLogLevel(&config.EnvironmentVariable{GO_ENV: "production"}))
	assert.Equal(t, logger.Info, gormLogLevel(&config.EnvironmentVariable{GO_ENV: "development"}))
	assert.Equal(t, logger.Warn, gormLogLevel(&config.EnvironmentVariable{GO_ENV: "test"}))
}

func TestHealthCheck(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		assert.NoError(t, store.HealthCheck())
		assert.NotNil(t, store.GetDB())
	})
}

func TestUserCRUD(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		users := store.Users()

		ana := newUser("ana@x.com")
		require.NoError(t, users.Create(ctx, ana))
		assert.NotZero(t, ana.ID)
		assert.False(t, ana.CreatedAt.IsZero())

		bia := newUser("bia@x.com")
		require.NoError(t, users.Create(ctx, bia))

		err := users.Create(ctx, newUser("ana@x.com"))
		assert.ErrorIs(t, err, ErrConflict)

		list, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ana.ID, list[0].ID)
		assert.Equal(t, bia.ID, list[1].ID)

		byEmail, err := users.GetByEmail(ctx, "bia@x.com")
		require.NoError(t, err)
		assert.Equal(t, bia.ID, byEmail.ID)

		_, err = users.GetByEmail(ctx, "ninguem@x.com")
		assert.ErrorIs(t, err, ErrNotFound)

		updated, err := users.Update(ctx, int64(ana.ID), []query.Assignment{{Column: "nome", Value: "Ana Maria"}})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", updated.Name)
		assert.Equal(t, "ana@x.com", updated.Email)
		assert.False(t, updated.UpdatedAt.Before(ana.UpdatedAt))

		_, err = users.Update(ctx, int64(bia.ID), []query.Assignment{{Column: "email", Value: "ana@x.com"}})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = users.Update(ctx, 9999, []query.Assignment{{Column: "nome", Value: "X"}})
		assert.ErrorIs(t, err, ErrNotFound)

		affected, err := users.Delete(ctx, int64(ana.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		affected, err = users.Delete(ctx, int64(ana.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)

		_, err = users.Get(ctx, int64(ana.ID))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEventWithTagsAndAttachments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		events := store.Events()
		date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

		event := newEvent("Semana de TI", date, []int{4, 13}, "programacao.pdf")
		require.NoError(t, events.Create(ctx, event))
		require.NotZero(t, event.ID)

		got, err := events.Get(ctx, int64(event.ID))
		require.NoError(t, err)
		assert.Equal(t, "Semana de TI", got.Title)
		assert.True(t, date.Equal(got.Date))
		assert.Equal(t, "Pendente", got.Status)
		assert.Nil(t, got.Location)
		assert.Equal(t, []int{4, 13}, got.TagNumbers())
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "programacao.pdf", got.Attachments[0].Name)

		// only the tag set changes
		tags := []int{1}
		updated, err := events.Update(ctx, int64(event.ID), EventUpdate{Tags: &tags})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, updated.TagNumbers())
		assert.Len(t, updated.Attachments, 1)
		assert.Equal(t, "Semana de TI", updated.Title)

		// fields and an emptied attachment set in one call
		none := []string{}
		updated, err = events.Update(ctx, int64(event.ID), EventUpdate{
			Fields:      []query.Assignment{{Column: "local", Value: "Auditório"}, {Column: "status", Value: "Aprovado"}},
			Attachments: &none,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Location)
		assert.Equal(t, "Auditório", *updated.Location)
		assert.Equal(t, "Aprovado", updated.Status)
		assert.Empty(t, updated.Attachments)
		assert.Equal(t, []int{1}, updated.TagNumbers())

		updated, err = events.Update(ctx, int64(event.ID), EventUpdate{
			Fields: []query.Assignment{{Column: "local", Value: nil}},
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Location)

		_, err = events.Update(ctx, 9999, EventUpdate{Tags: &tags})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// execRaw runs a statement on the store's underlying handle
func execRaw(t *testing.T, store Storage, statement string) {
	t.Helper()
	switch db := store.GetDB().(type) {
	case *gorm.DB:
		require.NoError(t, db.Exec(statement).Error)
	case *sql.DB:
		_, err := db.Exec(statement)
		require.NoError(t, err)
	default:
		t.Fatalf("unexpected handle %T", db)
	}
}

func TestEventWritesAreAllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		events := store.Events()

		event := newEvent("Original", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), []int{4}, "a.pdf")
		require.NoError(t, events.Create(ctx, event))

		execRaw(t, store, `CREATE TRIGGER reject_attachment BEFORE INSERT ON anexo_evento
			WHEN NEW.nome = 'boom.pdf' BEGIN SELECT RAISE(ABORT, 'boom'); END`)

		tags := []int{7}
		attachments := []string{"boom.pdf"}
		_, err := events.Update(ctx, int64(event.ID), EventUpdate{
			Fields:      []query.Assignment{{Column: "titulo", Value: "Novo"}},
			Tags:        &tags,
			Attachments: &attachments,
		})
		require.Error(t, err)

		got, err := events.Get(ctx, int64(event.ID))
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title)
		assert.Equal(t, []int{4}, got.TagNumbers())
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "a.pdf", got.Attachments[0].Name)

		// a failed create leaves no parent row behind
		require.Error(t, events.Create(ctx, newEvent("Falha", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), []int{1}, "boom.pdf")))
		list, err := events.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Original", list[0].Title)
	})
}

func TestEventListOrderedByDateDescending(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		events := store.Events()

		older := newEvent("Antigo", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), nil)
		newer := newEvent("Novo", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), []int{7})
		require.NoError(t, events.Create(ctx, older))
		require.NoError(t, events.Create(ctx, newer))

		list, err := events.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Novo", list[0].Title)
		assert.Equal(t, []int{7}, list[0].TagNumbers())
		assert.Equal(t, "Antigo", list[1].Title)
		assert.Empty(t, list[1].Tags)
	})
}

func TestCommentsAreScopedToTheirEvent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

		first := newEvent("A", date, nil)
		second := newEvent("B", date, nil)
		require.NoError(t, store.Events().Create(ctx, first))
		require.NoError(t, store.Events().Create(ctx, second))

		comments := store.Comments()

		err := comments.Create(ctx, &model.Comment{EventID: 9999, Author: "Ana", Content: "oi"})
		assert.ErrorIs(t, err, ErrNotFound)

		c1 := &model.Comment{EventID: first.ID, Author: "Ana", Content: "primeiro"}
		c2 := &model.Comment{EventID: first.ID, Author: "Bia", Content: "segundo"}
		require.NoError(t, comments.Create(ctx, c1))
		require.NoError(t, comments.Create(ctx, c2))
		assert.NotZero(t, c1.ID)

		list, err := comments.ListByEvent(ctx, int64(first.ID))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, c2.ID, list[0].ID, "newest first")

		list, err = comments.ListByEvent(ctx, int64(second.ID))
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = comments.Update(ctx, int64(second.ID), int64(c1.ID), []query.Assignment{{Column: "conteudo", Value: "x"}})
		assert.ErrorIs(t, err, ErrNotFound)

		updated, err := comments.Update(ctx, int64(first.ID), int64(c1.ID), []query.Assignment{{Column: "conteudo", Value: "editado"}})
		require.NoError(t, err)
		assert.Equal(t, "editado", updated.Content)
		assert.Equal(t, "Ana", updated.Author)

		affected, err := comments.Delete(ctx, int64(second.ID), int64(c1.ID))
		require.NoError(t, err)
		assert.Zero(t, affected)

		affected, err = comments.Delete(ctx, int64(first.ID), int64(c1.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})
}

func TestDeletingParentsCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		user := newUser("ana@x.com")
		require.NoError(t, store.Users().Create(ctx, user))

		event := newEvent("A", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), []int{4}, "a.pdf")
		require.NoError(t, store.Events().Create(ctx, event))

		comment := &model.Comment{EventID: event.ID, UserID: &user.ID, Author: user.Name, Content: "oi"}
		require.NoError(t, store.Comments().Create(ctx, comment))

		// deleting the author keeps the comment
		_, err := store.Users().Delete(ctx, int64(user.ID))
		require.NoError(t, err)
		kept, err := store.Comments().Get(ctx, int64(event.ID), int64(comment.ID))
		require.NoError(t, err)
		assert.Nil(t, kept.UserID)
		assert.Equal(t, "Ana", kept.Author)

		// deleting the event removes its comments
		affected, err := store.Events().Delete(ctx, int64(event.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		comments, err := store.Comments().ListByEvent(ctx, int64(event.ID))
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestProjects(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		professor := &model.Professor{Name: "Humberto", Email: "h@x.com", Password: "x", Course: "ADS"}
		require.NoError(t, store.Professors().Create(ctx, professor))

		err := store.Professors().Create(ctx, &model.Professor{Name: "Outro", Email: "h@x.com", Password: "x", Course: "ADS"})
		assert.ErrorIs(t, err, ErrConflict)

		subject := &model.Subject{Name: "Algoritmos", Description: strPtr("Estruturas de dados")}
		require.NoError(t, store.Subjects().Create(ctx, subject))

		err = store.Subjects().Create(ctx, &model.Subject{Name: "Algoritmos"})
		assert.ErrorIs(t, err, ErrConflict)

		research := &model.ResearchProject{
			ProjectHeader: model.ProjectHeader{
				Title:        "IA na educação",
				ThematicArea: "Computação",
				Description:  "Pesquisa",
				OccursAt:     time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
				ProfessorID:  professor.ID,
				SubjectID:    &subject.ID,
			},
			ResearchProblem: "Como?",
			Methodology:     "Estudo de caso",
			ExpectedResults: "Artigo",
		}
		require.NoError(t, store.ResearchProjects().Create(ctx, research))
		require.NotZero(t, research.ID)

		extension := &model.ExtensionProject{
			ProjectHeader: model.ProjectHeader{
				Title:        "Inclusão digital",
				ThematicArea: "Sociedade",
				Description:  "Oficinas",
				OccursAt:     time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
				ProfessorID:  professor.ID,
			},
			TargetAudience:    "Idosos",
			CommunityInvolved: "Bairro",
		}
		require.NoError(t, store.ExtensionProjects().Create(ctx, extension))
		assert.Nil(t, extension.SubjectID)

		got, err := store.ResearchProjects().Get(ctx, int64(research.ID))
		require.NoError(t, err)
		require.NotNil(t, got.SubjectID)
		assert.Equal(t, subject.ID, *got.SubjectID)
		assert.Equal(t, "Estudo de caso", got.Methodology)

		updated, err := store.ExtensionProjects().Update(ctx, int64(extension.ID), []query.Assignment{
			{Column: "materia_id", Value: int64(subject.ID)},
			{Column: "imagem", Value: "data:image/png;base64,AAAA"},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.SubjectID)
		require.NotNil(t, updated.Image)
		assert.Equal(t, "Bairro", updated.CommunityInvolved)

		// removing the subject unlinks, removing the professor deletes
		_, err = store.Subjects().Delete(ctx, int64(subject.ID))
		require.NoError(t, err)
		got, err = store.ResearchProjects().Get(ctx, int64(research.ID))
		require.NoError(t, err)
		assert.Nil(t, got.SubjectID)

		_, err = store.Professors().Delete(ctx, int64(professor.ID))
		require.NoError(t, err)

		list, err := store.ResearchProjects().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
		ext, err := store.ExtensionProjects().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, ext)
	})
}

func TestSubjectDescriptionCanBeCleared(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()

		subject := &model.Subject{Name: "Redes", Description: strPtr("TCP/IP")}
		require.NoError(t, store.Subjects().Create(ctx, subject))

		updated, err := store.Subjects().Update(ctx, int64(subject.ID), []query.Assignment{{Column: "descricao", Value: nil}})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
		assert.Equal(t, "Redes", updated.Name)
	})
}
