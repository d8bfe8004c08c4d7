package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/transport"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyFilter(q *gorm.DB, f transport.ProductFilter) *gorm.DB {
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f transport.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := applyFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := applyFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) ProductNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return mapErr(r.DB.WithContext(ctx).Create(prod).Error)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

// UpdateProduct writes only the given columns and returns the stored row.
// A nil value in fields sets the column to NULL.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, fields map[string]any) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&prod).Updates(fields).Error; err != nil {
			return err
		}
		prod = models.Product{}
		return tx.First(&prod, id).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &prod, nil
}

// DeleteProduct removes the row and returns it as it was just before deletion.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &prod, nil
}
