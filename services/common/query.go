package common

import (
	"context"
	"errors"
	"fmt"

	"trainhub/models"
	"trainhub/utils"

	"gorm.io/gorm"
)

// FindByID loads one row of T or returns a 404 naming label.
func FindByID[T any](ctx context.Context, db *gorm.DB, id uint, label string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(fmt.Sprintf("%s not found", label))
		}
		return nil, err
	}
	return &row, nil
}

// Exists reports whether any row of T matches the condition.
func Exists[T any](ctx context.Context, db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(new(T)).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureExists returns a 404 naming label when no row of T has the id.
func EnsureExists[T any](ctx context.Context, db *gorm.DB, id uint, label string) error {
	ok, err := Exists[T](ctx, db, "id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NotFound(fmt.Sprintf("%s not found", label))
	}
	return nil
}

// EnsureOptional behaves like EnsureExists but accepts a nil id.
func EnsureOptional[T any](ctx context.Context, db *gorm.DB, id *uint, label string) error {
	if id == nil {
		return nil
	}
	return EnsureExists[T](ctx, db, *id, label)
}

// Paginate runs query for one page and the total count.
func Paginate[T any](query *gorm.DB, p utils.Pagination, order string) (utils.Page[T], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return utils.Page[T]{}, err
	}
	var items []T
	if err := query.Session(&gorm.Session{}).Order(order).Offset(p.Offset()).Limit(p.Limit).Find(&items).Error; err != nil {
		return utils.Page[T]{}, err
	}
	return utils.NewPage(items, total, p), nil
}

// Like wraps a search term for a case-insensitive LIKE.
func Like(term string) string {
	return "%" + term + "%"
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Type models.UserType
}

func (a Actor) IsAdmin() bool    { return a.Type == models.UserTypeAdmin }
func (a Actor) IsSubAdmin() bool { return a.Type == models.UserTypeSubAdmin }
func (a Actor) IsStaff() bool    { return a.IsAdmin() || a.IsSubAdmin() }

// Mailer queues a typed email for delivery.
type Mailer interface {
	Dispatch(typeKey, to, toName string, data map[string]interface{})
}
