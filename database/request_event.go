package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/portal-eventos/portal-api/model"
	queryHelper "github.com/portal-eventos/portal-api/utils/query"
)

var eventEntity = sqlEntity[model.Event]{
	table:   EventTable,
	columns: "id, titulo, data, responsavel, status, local, curso, tipo_evento, modalidade, descricao, imagem, documento, link, criado_em, atualizado_em",
	order:   "data DESC, id DESC",
	insert:  []string{"titulo", "data", "responsavel", "status", "local", "curso", "tipo_evento", "modalidade", "descricao", "imagem", "documento", "link", "criado_em", "atualizado_em"},
	values: func(e *model.Event, now time.Time) []interface{} {
		return []interface{}{
			e.Title, e.Date, e.Responsible, e.Status, toNullString(e.Location), e.Course, e.EventType, e.Modality,
			toNullString(e.Description), toNullString(e.Image), toNullString(e.Document), toNullString(e.Link),
			now, now,
		}
	},
	scan: scanIntoEvent,
}

func scanIntoEvent(row scanner) (*model.Event, error) {
	event := new(model.Event)
	var location, description, image, document, link sql.NullString
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Responsible,
		&event.Status,
		&location,
		&event.Course,
		&event.EventType,
		&event.Modality,
		&description,
		&image,
		&document,
		&link,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Location = nullableString(location)
	event.Description = nullableString(description)
	event.Image = nullableString(image)
	event.Document = nullableString(document)
	event.Link = nullableString(link)
	return event, nil
}

type sqlEventRepository struct {
	store *SQLStore
}

func (r *sqlEventRepository) events() *sqlRepository[model.Event] {
	return &sqlRepository[model.Event]{store: r.store, entity: eventEntity}
}

func (r *sqlEventRepository) List(ctx context.Context) ([]model.Event, error) {
	events, err := r.events().List(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, events, ""); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *sqlEventRepository) Get(ctx context.Context, id int64) (*model.Event, error) {
	event, err := r.events().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	events := []model.Event{*event}
	if err := r.loadChildren(ctx, events, " WHERE evento_id = ?", id); err != nil {
		return nil, err
	}
	return &events[0], nil
}

// loadChildren fills the tag and attachment sets of events from rows matching where
func (r *sqlEventRepository) loadChildren(ctx context.Context, events []model.Event, where string, args ...interface{}) error {
	if len(events) == 0 {
		return nil
	}

	tags := map[uint][]model.EventTag{}
	err := r.eachRow(ctx, "SELECT id, evento_id, ods_numero FROM ods_evento"+where+" ORDER BY id", args, func(row scanner) error {
		var tag model.EventTag
		if err := row.Scan(&tag.ID, &tag.EventID, &tag.Number); err != nil {
			return err
		}
		tags[tag.EventID] = append(tags[tag.EventID], tag)
		return nil
	})
	if err != nil {
		return err
	}

	attachments := map[uint][]model.Attachment{}
	err = r.eachRow(ctx, "SELECT id, evento_id, nome FROM anexo_evento"+where+" ORDER BY id", args, func(row scanner) error {
		var attachment model.Attachment
		if err := row.Scan(&attachment.ID, &attachment.EventID, &attachment.Name); err != nil {
			return err
		}
		attachments[attachment.EventID] = append(attachments[attachment.EventID], attachment)
		return nil
	})
	if err != nil {
		return err
	}

	for i := range events {
		events[i].Tags = tags[events[i].ID]
		if events[i].Tags == nil {
			events[i].Tags = []model.EventTag{}
		}
		events[i].Attachments = attachments[events[i].ID]
		if events[i].Attachments == nil {
			events[i].Attachments = []model.Attachment{}
		}
	}
	return nil
}

func (r *sqlEventRepository) eachRow(ctx context.Context, query string, args []interface{}, fn func(row scanner) error) error {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(query), args...)
	if err != nil {
		return translateError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *sqlEventRepository) Create(ctx context.Context, event *model.Event) error {
	names := make([]string, 0, len(event.Attachments))
	for _, attachment := range event.Attachments {
		names = append(names, attachment.Name)
	}

	var id int64
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = r.store.insert(ctx, tx, eventEntity.insertInto(), eventEntity.values(event, time.Now().UTC())...)
		if err != nil {
			return err
		}
		if err := r.replaceTags(ctx, tx, id, event.TagNumbers()); err != nil {
			return err
		}
		return r.replaceAttachments(ctx, tx, id, names)
	})
	if err != nil {
		return translateError(err)
	}

	created, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	*event = *created
	return nil
}

func (r *sqlEventRepository) Update(ctx context.Context, id int64, update EventUpdate) (*model.Event, error) {
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		query, values := EventTable.UpdateQueryBuilder(update.Fields, id, time.Now().UTC())
		affected, err := r.store.exec(ctx, tx, query, values...)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		if update.Tags != nil {
			if err := r.replaceTags(ctx, tx, id, *update.Tags); err != nil {
				return err
			}
		}
		if update.Attachments != nil {
			if err := r.replaceAttachments(ctx, tx, id, *update.Attachments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return r.Get(ctx, id)
}

func (r *sqlEventRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return r.events().Delete(ctx, id)
}

func (r *sqlEventRepository) replaceTags(ctx context.Context, tx *sql.Tx, eventID int64, numbers []int) error {
	if _, err := r.store.exec(ctx, tx, "DELETE FROM ods_evento WHERE evento_id = ?", eventID); err != nil {
		return err
	}
	if len(numbers) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(numbers)*2)
	for _, number := range numbers {
		values = append(values, eventID, number)
	}
	_, err := r.store.exec(ctx, tx, "INSERT INTO ods_evento (evento_id, ods_numero) VALUES "+rowPlaceholders(len(numbers), 2), values...)
	return err
}

func (r *sqlEventRepository) replaceAttachments(ctx context.Context, tx *sql.Tx, eventID int64, names []string) error {
	if _, err := r.store.exec(ctx, tx, "DELETE FROM anexo_evento WHERE evento_id = ?", eventID); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(names)*2)
	for _, name := range names {
		values = append(values, eventID, name)
	}
	_, err := r.store.exec(ctx, tx, "INSERT INTO anexo_evento (evento_id, nome) VALUES "+rowPlaceholders(len(names), 2), values...)
	return err
}

// rowPlaceholders renders `(?, ?), (?, ?)` for a multi-row VALUES list
func rowPlaceholders(rows, columns int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", columns), ", ") + ")"
	return strings.TrimSuffix(strings.Repeat(row+", ", rows), ", ")
}

var commentEntity = sqlEntity[model.Comment]{
	table:   CommentTable,
	columns: "id, evento_id, usuario_id, autor, conteudo, criado_em, atualizado_em",
	order:   "criado_em DESC, id DESC",
	insert:  []string{"evento_id", "usuario_id", "autor", "conteudo", "criado_em", "atualizado_em"},
	values: func(c *model.Comment, now time.Time) []interface{} {
		return []interface{}{int64(c.EventID), toNullInt64(c.UserID), c.Author, c.Content, now, now}
	},
	scan: scanIntoComment,
}

func scanIntoComment(row scanner) (*model.Comment, error) {
	comment := new(model.Comment)
	var user sql.NullInt64
	err := row.Scan(
		&comment.ID,
		&comment.EventID,
		&user,
		&comment.Author,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	comment.UserID = nullableID(user)
	return comment, nil
}

type sqlCommentRepository struct {
	store *SQLStore
}

func (r *sqlCommentRepository) comments() *sqlRepository[model.Comment] {
	return &sqlRepository[model.Comment]{store: r.store, entity: commentEntity}
}

func (r *sqlCommentRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Comment, error) {
	return r.comments().selectMany(ctx, r.store.db,
		commentEntity.selectFrom()+" WHERE evento_id = ? ORDER BY "+commentEntity.order, eventID)
}

func (r *sqlCommentRepository) Get(ctx context.Context, eventID, commentID int64) (*model.Comment, error) {
	return r.comments().selectOne(ctx, r.store.db,
		commentEntity.selectFrom()+" WHERE id = ? AND evento_id = ?", commentID, eventID)
}

func (r *sqlCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	var id int64
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx, r.store.rebind("SELECT id FROM evento WHERE id = ?"), int64(comment.EventID)).Scan(&exists)
		if err != nil {
			return err
		}

		id, err = r.store.insert(ctx, tx, commentEntity.insertInto(), commentEntity.values(comment, time.Now().UTC())...)
		return err
	})
	if err != nil {
		return translateError(err)
	}

	created, err := r.comments().Get(ctx, id)
	if err != nil {
		return err
	}
	*comment = *created
	return nil
}

func (r *sqlCommentRepository) Update(ctx context.Context, eventID, commentID int64, assignments []queryHelper.Assignment) (*model.Comment, error) {
	query, values := CommentTable.UpdateQueryBuilder(assignments, commentID, time.Now().UTC())
	query += " AND evento_id = ?"
	values = append(values, eventID)

	affected, err := r.store.exec(ctx, r.store.db, query, values...)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, eventID, commentID)
}

func (r *sqlCommentRepository) Delete(ctx context.Context, eventID, commentID int64) (int64, error) {
	return r.store.exec(ctx, r.store.db, "DELETE FROM comentario_evento WHERE id = ? AND evento_id = ?", commentID, eventID)
}
