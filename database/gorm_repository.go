package database

import (
	"context"
	"time"

	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository[T any] struct {
	db    *gorm.DB
	table query.Table
	order string
}

func newGormRepository[T any](db *gorm.DB, table query.Table, order string) *gormRepository[T] {
	return &gormRepository[T]{db: db, table: table, order: order}
}

func (r *gormRepository[T]) List(ctx context.Context) ([]T, error) {
	rows := []T{}
	if err := r.db.WithContext(ctx).Order(r.order).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func (r *gormRepository[T]) Get(ctx context.Context, id int64) (*T, error) {
	return r.first(ctx, r.table.Key+" = ?", id)
}

func (r *gormRepository[T]) first(ctx context.Context, cond string, args ...interface{}) (*T, error) {
	row := new(T)
	if err := r.db.WithContext(ctx).Where(cond, args...).First(row).Error; err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

func (r *gormRepository[T]) Create(ctx context.Context, row *T) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error)
}

func (r *gormRepository[T]) Update(ctx context.Context, id int64, assignments []query.Assignment) (*T, error) {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where(r.table.Key+" = ?", id).
		Updates(r.table.ToMap(assignments, time.Now().UTC()))
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *gormRepository[T]) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where(r.table.Key+" = ?", id).Delete(new(T))
	return result.RowsAffected, translateError(result.Error)
}

type gormUserRepository struct {
	*gormRepository[model.User]
}

func (r gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

type gormProfessorRepository struct {
	*gormRepository[model.Professor]
}

func (r gormProfessorRepository) GetByEmail(ctx context.Context, email string) (*model.Professor, error) {
	return r.first(ctx, "email = ?", email)
}

type gormEventRepository struct {
	db *gorm.DB
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *gormEventRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Tags", orderByID).Preload("Attachments", orderByID)
}

func (r *gormEventRepository) List(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	if err := r.withChildren(ctx).Order("data DESC, id DESC").Find(&events).Error; err != nil {
		return nil, translateError(err)
	}
	return events, nil
}

func (r *gormEventRepository) Get(ctx context.Context, id int64) (*model.Event, error) {
	event := new(model.Event)
	if err := r.withChildren(ctx).Where("id = ?", id).First(event).Error; err != nil {
		return nil, translateError(err)
	}
	return event, nil
}

func (r *gormEventRepository) Create(ctx context.Context, event *model.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}

		tags, err := gormReplaceTags(tx, event.ID, event.TagNumbers())
		if err != nil {
			return err
		}
		event.Tags = tags

		names := make([]string, 0, len(event.Attachments))
		for _, attachment := range event.Attachments {
			names = append(names, attachment.Name)
		}
		attachments, err := gormReplaceAttachments(tx, event.ID, names)
		if err != nil {
			return err
		}
		event.Attachments = attachments

		return nil
	})
	return translateError(err)
}

func (r *gormEventRepository) Update(ctx context.Context, id int64, update EventUpdate) (*model.Event, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Event{}).
			Where("id = ?", id).
			Updates(EventTable.ToMap(update.Fields, time.Now().UTC()))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if update.Tags != nil {
			if _, err := gormReplaceTags(tx, uint(id), *update.Tags); err != nil {
				return err
			}
		}
		if update.Attachments != nil {
			if _, err := gormReplaceAttachments(tx, uint(id), *update.Attachments); err != nil {
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

func (r *gormEventRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{})
	return result.RowsAffected, translateError(result.Error)
}

func gormReplaceTags(tx *gorm.DB, eventID uint, numbers []int) ([]model.EventTag, error) {
	if err := tx.Where("evento_id = ?", eventID).Delete(&model.EventTag{}).Error; err != nil {
		return nil, err
	}

	tags := make([]model.EventTag, 0, len(numbers))
	for _, number := range numbers {
		tags = append(tags, model.EventTag{EventID: eventID, Number: number})
	}
	if len(tags) == 0 {
		return tags, nil
	}
	return tags, tx.Create(&tags).Error
}

func gormReplaceAttachments(tx *gorm.DB, eventID uint, names []string) ([]model.Attachment, error) {
	if err := tx.Where("evento_id = ?", eventID).Delete(&model.Attachment{}).Error; err != nil {
		return nil, err
	}

	attachments := make([]model.Attachment, 0, len(names))
	for _, name := range names {
		attachments = append(attachments, model.Attachment{EventID: eventID, Name: name})
	}
	if len(attachments) == 0 {
		return attachments, nil
	}
	return attachments, tx.Create(&attachments).Error
}

type gormCommentRepository struct {
	db *gorm.DB
}

func (r *gormCommentRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := r.db.WithContext(ctx).
		Where("evento_id = ?", eventID).
		Order("criado_em DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

func (r *gormCommentRepository) Get(ctx context.Context, eventID, commentID int64) (*model.Comment, error) {
	comment := new(model.Comment)
	err := r.db.WithContext(ctx).
		Where("id = ? AND evento_id = ?", commentID, eventID).
		First(comment).Error
	if err != nil {
		return nil, translateError(err)
	}
	return comment, nil
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Event{}).Where("id = ?", comment.EventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(comment).Error
	})
	return translateError(err)
}

func (r *gormCommentRepository) Update(ctx context.Context, eventID, commentID int64, assignments []query.Assignment) (*model.Comment, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ? AND evento_id = ?", commentID, eventID).
		Updates(CommentTable.ToMap(assignments, time.Now().UTC()))
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, eventID, commentID)
}

func (r *gormCommentRepository) Delete(ctx context.Context, eventID, commentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND evento_id = ?", commentID, eventID).
		Delete(&model.Comment{})
	return result.RowsAffected, translateError(result.Error)
}
