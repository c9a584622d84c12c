package repo

import (
	"context"

	"github.com/ekoval/bookrental/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SetRefreshHash(ctx context.Context, userID uint, hash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_refresh_token", hash).Error
}

// RotateRefreshHash swaps the stored hash only if it still equals the
// one the caller verified. A zero row count means a concurrent rotation
// or logout won, so the presented token is no longer usable.
func (r *GormRepo) RotateRefreshHash(ctx context.Context, userID uint, oldHash, newHash string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND hashed_refresh_token = ?", userID, oldHash).
		Update("hashed_refresh_token", newHash)
	return res.RowsAffected, res.Error
}

// ClearRefreshHash is idempotent: clearing an absent hash or an unknown
// user affects zero rows and is not an error.
func (r *GormRepo) ClearRefreshHash(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND hashed_refresh_token IS NOT NULL", userID).
		Update("hashed_refresh_token", nil).Error
}
