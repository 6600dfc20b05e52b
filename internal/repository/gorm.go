package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// GormRepository implements Repository[T] on top of a gorm handle.
// Associations are never written implicitly; the entity repositories
// manage them explicitly.
type GormRepository[T any, P Record[T]] struct {
	db *gorm.DB
}

// NewGormRepository panics when db is nil.
func NewGormRepository[T any, P Record[T]](db *gorm.DB) *GormRepository[T, P] {
	if db == nil {
		panic("repository: nil gorm handle")
	}
	return &GormRepository[T, P]{db: db}
}

func (r *GormRepository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *GormRepository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *GormRepository[T, P]) GetByAttribute(ctx context.Context, field string, value any) (*T, error) {
	var probe T
	if _, ok := P(&probe).Attribute(field); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, field)
	}
	var out T
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *GormRepository[T, P]) Add(ctx context.Context, e *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(P(e)).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormRepository[T, P]) Update(ctx context.Context, id string, patch Patch[T]) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			return err
		}
		patch.Apply(&out)
		if err := P(&out).Validate(); err != nil {
			return err
		}
		P(&out).Touch(time.Now())
		return tx.Omit(clause.Associations).Save(P(&out)).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *GormRepository[T, P]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(P(new(T)))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// find runs a filtered list query ordered by creation time.
func (r *GormRepository[T, P]) find(ctx context.Context, query string, args ...any) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// translate maps driver errors onto the package sentinels and leaves
// anything else (including validation errors) untouched.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}
