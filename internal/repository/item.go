package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"microgreens-ops/internal/model"
)

type ItemRepository interface {
	Create(ctx context.Context, tx *gorm.DB, item *model.Item) error
	FindByName(ctx context.Context, name string) (*model.Item, error)
	FindAll(ctx context.Context) ([]*model.Item, error)
}

type itemRepoImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepoImpl{db: db}
}

func (r *itemRepoImpl) Create(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *itemRepoImpl) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item %q", model.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepoImpl) FindAll(ctx context.Context) ([]*model.Item, error) {
	var items []*model.Item
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
