package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"microgreens-ops/internal/model"
)

type SeriesRepository interface {
	Create(ctx context.Context, tx *gorm.DB, series *model.SubscriptionSeries) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.SubscriptionSeries, error)
	Update(ctx context.Context, tx *gorm.DB, series *model.SubscriptionSeries) error
}

type seriesRepoImpl struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) SeriesRepository {
	return &seriesRepoImpl{db: db}
}

func (r *seriesRepoImpl) Create(ctx context.Context, tx *gorm.DB, series *model.SubscriptionSeries) error {
	return tx.WithContext(ctx).Create(series).Error
}

func (r *seriesRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.SubscriptionSeries, error) {
	var series model.SubscriptionSeries
	err := tx.WithContext(ctx).First(&series, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: subscription series %d", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *seriesRepoImpl) Update(ctx context.Context, tx *gorm.DB, series *model.SubscriptionSeries) error {
	return tx.WithContext(ctx).Save(series).Error
}
