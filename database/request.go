package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/portal-eventos/portal-api/model"
	queryHelper "github.com/portal-eventos/portal-api/utils/query"
)

// sqlEntity describes how one table is selected, inserted and scanned
type sqlEntity[T any] struct {
	table   queryHelper.Table
	columns string // selected columns, id first
	order   string
	insert  []string                                  // inserted columns
	values  func(row *T, now time.Time) []interface{} // values for insert, in order
	scan    func(row scanner) (*T, error)
}

func (e sqlEntity[T]) selectFrom() string {
	return "SELECT " + e.columns + " FROM " + e.table.Name
}

func (e sqlEntity[T]) insertInto() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(e.insert)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.table.Name, strings.Join(e.insert, ", "), placeholders)
}

type sqlRepository[T any] struct {
	store  *SQLStore
	entity sqlEntity[T]
}

func (r *sqlRepository[T]) List(ctx context.Context) ([]T, error) {
	return r.selectMany(ctx, r.store.db, r.entity.selectFrom()+" ORDER BY "+r.entity.order)
}

func (r *sqlRepository[T]) Get(ctx context.Context, id int64) (*T, error) {
	return r.selectOne(ctx, r.store.db, r.entity.selectFrom()+" WHERE id = ?", id)
}

func (r *sqlRepository[T]) Create(ctx context.Context, row *T) error {
	id, err := r.store.insert(ctx, r.store.db, r.entity.insertInto(), r.entity.values(row, time.Now().UTC())...)
	if err != nil {
		return err
	}

	created, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	*row = *created
	return nil
}

func (r *sqlRepository[T]) Update(ctx context.Context, id int64, assignments []queryHelper.Assignment) (*T, error) {
	query, values := r.entity.table.UpdateQueryBuilder(assignments, id, time.Now().UTC())

	affected, err := r.store.exec(ctx, r.store.db, query, values...)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *sqlRepository[T]) Delete(ctx context.Context, id int64) (int64, error) {
	return r.store.exec(ctx, r.store.db, "DELETE FROM "+r.entity.table.Name+" WHERE id = ?", id)
}

func (r *sqlRepository[T]) selectOne(ctx context.Context, q querier, query string, args ...interface{}) (*T, error) {
	row, err := r.entity.scan(q.QueryRowContext(ctx, r.store.rebind(query), args...))
	if err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

func (r *sqlRepository[T]) selectMany(ctx context.Context, q querier, query string, args ...interface{}) ([]T, error) {
	rows, err := q.QueryContext(ctx, r.store.rebind(query), args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		row, err := r.entity.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

type sqlUserRepository struct {
	*sqlRepository[model.User]
}

func (r sqlUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.selectOne(ctx, r.store.db, r.entity.selectFrom()+" WHERE email = ?", email)
}

type sqlProfessorRepository struct {
	*sqlRepository[model.Professor]
}

func (r sqlProfessorRepository) GetByEmail(ctx context.Context, email string) (*model.Professor, error) {
	return r.selectOne(ctx, r.store.db, r.entity.selectFrom()+" WHERE email = ?", email)
}

var userEntity = sqlEntity[model.User]{
	table:   UserTable,
	columns: "id, nome, email, senha, cargo, criado_em, atualizado_em",
	order:   "id",
	insert:  []string{"nome", "email", "senha", "cargo", "criado_em", "atualizado_em"},
	values: func(u *model.User, now time.Time) []interface{} {
		return []interface{}{u.Name, u.Email, u.Password, u.Role, now, now}
	},
	scan: scanIntoUser,
}

func scanIntoUser(row scanner) (*model.User, error) {
	user := new(model.User)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

var professorEntity = sqlEntity[model.Professor]{
	table:   ProfessorTable,
	columns: "id, nome, email, senha, curso, created_at, updated_at",
	order:   "id",
	insert:  []string{"nome", "email", "senha", "curso", "created_at", "updated_at"},
	values: func(p *model.Professor, now time.Time) []interface{} {
		return []interface{}{p.Name, p.Email, p.Password, p.Course, now, now}
	},
	scan: scanIntoProfessor,
}

func scanIntoProfessor(row scanner) (*model.Professor, error) {
	professor := new(model.Professor)
	err := row.Scan(
		&professor.ID,
		&professor.Name,
		&professor.Email,
		&professor.Password,
		&professor.Course,
		&professor.CreatedAt,
		&professor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return professor, nil
}

var subjectEntity = sqlEntity[model.Subject]{
	table:   SubjectTable,
	columns: "id, nome, descricao, created_at, updated_at",
	order:   "id",
	insert:  []string{"nome", "descricao", "created_at", "updated_at"},
	values: func(s *model.Subject, now time.Time) []interface{} {
		return []interface{}{s.Name, toNullString(s.Description), now, now}
	},
	scan: scanIntoSubject,
}

func scanIntoSubject(row scanner) (*model.Subject, error) {
	subject := new(model.Subject)
	var description sql.NullString
	err := row.Scan(
		&subject.ID,
		&subject.Name,
		&description,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	subject.Description = nullableString(description)
	return subject, nil
}

const projectHeaderColumns = "id, titulo, area_tematica, descricao, momento_ocorre, imagem, professor_coordenador_id, materia_id, created_at, updated_at"

var projectHeaderInsert = []string{"titulo", "area_tematica", "descricao", "momento_ocorre", "imagem", "professor_coordenador_id", "materia_id", "created_at", "updated_at"}

func projectHeaderValues(h *model.ProjectHeader, now time.Time) []interface{} {
	return []interface{}{h.Title, h.ThematicArea, h.Description, h.OccursAt, toNullString(h.Image), int64(h.ProfessorID), toNullInt64(h.SubjectID), now, now}
}

// scanProjectHeader scans the header columns followed by extra, the kind-specific ones
func scanProjectHeader(row scanner, h *model.ProjectHeader, extra ...interface{}) error {
	var (
		image   sql.NullString
		subject sql.NullInt64
	)
	dest := append([]interface{}{
		&h.ID,
		&h.Title,
		&h.ThematicArea,
		&h.Description,
		&h.OccursAt,
		&image,
		&h.ProfessorID,
		&subject,
		&h.CreatedAt,
		&h.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	h.Image = nullableString(image)
	h.SubjectID = nullableID(subject)
	return nil
}

var researchProjectEntity = sqlEntity[model.ResearchProject]{
	table:   ResearchProjectTable,
	columns: projectHeaderColumns + ", problema_pesquisa, metodologia, resultados_esperados",
	order:   "created_at DESC, id DESC",
	insert:  append(append([]string{}, projectHeaderInsert...), "problema_pesquisa", "metodologia", "resultados_esperados"),
	values: func(p *model.ResearchProject, now time.Time) []interface{} {
		return append(projectHeaderValues(&p.ProjectHeader, now), p.ResearchProblem, p.Methodology, p.ExpectedResults)
	},
	scan: func(row scanner) (*model.ResearchProject, error) {
		project := new(model.ResearchProject)
		err := scanProjectHeader(row, project.Header(), &project.ResearchProblem, &project.Methodology, &project.ExpectedResults)
		if err != nil {
			return nil, err
		}
		return project, nil
	},
}

var extensionProjectEntity = sqlEntity[model.ExtensionProject]{
	table:   ExtensionProjectTable,
	columns: projectHeaderColumns + ", tipo_pessoas_procuram, comunidade_envolvida",
	order:   "created_at DESC, id DESC",
	insert:  append(append([]string{}, projectHeaderInsert...), "tipo_pessoas_procuram", "comunidade_envolvida"),
	values: func(p *model.ExtensionProject, now time.Time) []interface{} {
		return append(projectHeaderValues(&p.ProjectHeader, now), p.TargetAudience, p.CommunityInvolved)
	},
	scan: func(row scanner) (*model.ExtensionProject, error) {
		project := new(model.ExtensionProject)
		err := scanProjectHeader(row, project.Header(), &project.TargetAudience, &project.CommunityInvolved)
		if err != nil {
			return nil, err
		}
		return project, nil
	},
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullableID(n sql.NullInt64) *uint {
	if !n.Valid {
		return nil
	}
	id := uint(n.Int64)
	return &id
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullInt64(id *uint) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}
