package repo

import (
	"context"

	"github.com/ekoval/bookrental/internal/models"
)

func (r *GormRepo) ListBookstores(ctx context.Context) ([]models.Bookstore, error) {
	var stores []models.Bookstore
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *GormRepo) BookstoreExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Bookstore{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
