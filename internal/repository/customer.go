package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"microgreens-ops/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, customer *model.Customer) error
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	FindByName(ctx context.Context, name string) (*model.Customer, error)
	FindAll(ctx context.Context) ([]*model.Customer, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{db: db}
}

func (r *customerRepoImpl) Create(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	return tx.WithContext(ctx).Create(customer).Error
}

func (r *customerRepoImpl) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %d", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepoImpl) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %q", model.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepoImpl) FindAll(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
