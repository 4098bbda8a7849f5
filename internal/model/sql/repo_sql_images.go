package sql

import (
	"context"
	"errors"
	"fmt"

	"lenshive/internal/entity"

	"gorm.io/gorm"
)

// The handlers below maintain the product-image invariant: a product never has
// more than one primary image, and has exactly one whenever it has any images.
// Every mutation runs in a single transaction per product so no interleaving
// can observe two primaries, or zero primaries while images remain.

// AddProductImages inserts a batch of images for a product. When the product
// has no images yet, the first of the batch becomes primary regardless of
// primaryIndex. Otherwise primaryIndex (when >= 0) names the image of the
// batch to promote, demoting all existing images; pass -1 to add the batch
// without touching the current primary.
func (r *GormRepository) AddProductImages(ctx context.Context, productID uint, images []entity.DbProductImage, primaryIndex int) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if productID == 0 {
		return fmt.Errorf("invalid product id")
	}
	if len(images) == 0 {
		return fmt.Errorf("no images to add")
	}
	if primaryIndex >= len(images) {
		return fmt.Errorf("primary index %d out of range", primaryIndex)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entity.DbProduct
		if err := tx.Select("id").First(&product, productID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&entity.DbProductImage{}).Where("product_id = ?", productID).Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			// First image of the product is always primary.
			primaryIndex = 0
		}

		for i := range images {
			images[i].ID = 0
			images[i].ProductID = productID
			images[i].IsPrimary = false
		}

		if primaryIndex >= 0 {
			if existing > 0 {
				if err := tx.Model(&entity.DbProductImage{}).
					Where("product_id = ?", productID).
					Update("is_primary", false).Error; err != nil {
					return err
				}
			}
			images[primaryIndex].IsPrimary = true
		}

		return tx.Create(&images).Error
	})
}

// GetProductImage loads one image, scoped to its owning product. A valid image
// id paired with the wrong product id yields ErrRecordNotFound.
func (r *GormRepository) GetProductImage(ctx context.Context, productID, imageID uint) (*entity.DbProductImage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if productID == 0 || imageID == 0 {
		return nil, fmt.Errorf("invalid image reference")
	}
	var image entity.DbProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, imageID).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ListProductImages returns a product's images in display order.
func (r *GormRepository) ListProductImages(ctx context.Context, productID uint) ([]entity.DbProductImage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if productID == 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	var images []entity.DbProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(imageDisplayOrder).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// SetPrimaryImage promotes one existing image and demotes its siblings in the
// same transaction.
func (r *GormRepository) SetPrimaryImage(ctx context.Context, productID, imageID uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if productID == 0 || imageID == 0 {
		return fmt.Errorf("invalid image reference")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image entity.DbProductImage
		if err := tx.Where("product_id = ? AND id = ?", productID, imageID).First(&image).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.DbProductImage{}).
			Where("product_id = ? AND id <> ?", productID, imageID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.DbProductImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}

// DeleteProductImage removes one image. When the deleted image was primary and
// siblings remain, the survivor that sorts first in display order (the most
// recently created, since none of the remainder is primary) is promoted.
func (r *GormRepository) DeleteProductImage(ctx context.Context, productID, imageID uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if productID == 0 || imageID == 0 {
		return fmt.Errorf("invalid image reference")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image entity.DbProductImage
		if err := tx.Where("product_id = ? AND id = ?", productID, imageID).First(&image).Error; err != nil {
			return err
		}

		if err := tx.Delete(&entity.DbProductImage{}, image.ID).Error; err != nil {
			return err
		}

		if !image.IsPrimary {
			return nil
		}

		var survivor entity.DbProductImage
		err := tx.Where("product_id = ?", productID).Order(imageDisplayOrder).First(&survivor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No images left, nothing to promote.
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&entity.DbProductImage{}).
			Where("id = ?", survivor.ID).
			Update("is_primary", true).Error
	})
}
