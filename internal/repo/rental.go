package repo

import (
	"context"
	"errors"
	"time"

	"github.com/ekoval/bookrental/internal/models"
	"gorm.io/gorm"
)

// FindOpenRental returns nil, nil when the user holds no open loan on
// the book.
func (r *GormRepo) FindOpenRental(ctx context.Context, bookID, userID uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.DB.WithContext(ctx).
		Where("book_id = ? AND user_id = ? AND returned_at IS NULL", bookID, userID).
		First(&rental).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *GormRepo) CreateRental(ctx context.Context, rental *models.Rental) error {
	return r.DB.WithContext(ctx).Create(rental).Error
}

func (r *GormRepo) MarkReturned(ctx context.Context, rentalID uint, returnedAt time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Rental{}).
		Where("id = ?", rentalID).
		Update("returned_at", returnedAt).Error
}

func (r *GormRepo) ListRentals(ctx context.Context, userID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}
