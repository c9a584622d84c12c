package repo

import (
	"context"
	"strings"

	"github.com/ekoval/bookrental/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListBooks(ctx context.Context, bookstoreID uint) ([]models.Book, error) {
	var books []models.Book
	if err := r.DB.WithContext(ctx).
		Where("bookstore_id = ?", bookstoreID).
		Order("id ASC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormRepo) SearchBooks(ctx context.Context, bookstoreID uint, query string) ([]models.Book, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var books []models.Book
	if err := r.DB.WithContext(ctx).
		Where("bookstore_id = ?", bookstoreID).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormRepo) GetBook(ctx context.Context, bookstoreID, bookID uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND bookstore_id = ?", bookID, bookstoreID).
		First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// DecrementQuantity is the guarded write that keeps quantity from going
// negative under concurrent rents: the predicate and the decrement are
// one statement, so two racing transactions cannot both take the last
// copy.
func (r *GormRepo) DecrementQuantity(ctx context.Context, bookID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND quantity > 0", bookID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	return res.RowsAffected, res.Error
}

func (r *GormRepo) IncrementQuantity(ctx context.Context, bookID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("quantity", gorm.Expr("quantity + 1")).Error
}
