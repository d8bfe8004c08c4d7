package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/product_api/internal/models"
)

func (r *GormRepo) CreateToken(ctx context.Context, t *models.AccessToken) error {
	return mapErr(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) FindTokenByJTI(ctx context.Context, jti string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, mapErr(err)
	}
	return &token, nil
}

func (r *GormRepo) TouchToken(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// DeleteToken removes the row for jti. ErrNotFound means the token was
// already revoked or never existed.
func (r *GormRepo) DeleteToken(ctx context.Context, jti string) error {
	res := r.DB.WithContext(ctx).Where("jti = ?", jti).Delete(&models.AccessToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CountTokens(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
