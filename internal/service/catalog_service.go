package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lenshive/internal/entity"
	"lenshive/internal/model"
	"lenshive/internal/storage"

	"github.com/sirupsen/logrus"
)

const imageCategory = "products"

// ImageUpload 是一张待存储的商品图片。
type ImageUpload struct {
	Data      []byte
	Extension string
}

// CatalogService 负责商品图片的落盘与数据库记录的联动。
// 图片的主图不变量由仓库层事务维护，这里只处理文件与记录的一致性。
type CatalogService struct {
	repo  model.Repository
	store storage.Storage
}

func NewCatalogService(repo model.Repository, store storage.Storage) *CatalogService {
	return &CatalogService{repo: repo, store: store}
}

// StoreProductImages 先把文件写入存储，再把记录交给仓库。
// primaryIndex 指向 uploads 中应成为主图的下标，-1 表示不指定。
// 数据库写入失败时尽力清理已保存的文件。
func (s *CatalogService) StoreProductImages(ctx context.Context, productID uint, uploads []ImageUpload, primaryIndex int) error {
	if s == nil || s.repo == nil || s.store == nil {
		return errors.New("catalog service not initialised")
	}
	if len(uploads) == 0 {
		return errors.New("no images provided")
	}
	if primaryIndex >= len(uploads) {
		return fmt.Errorf("primary index %d out of range", primaryIndex)
	}

	saved := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key, err := s.store.Save(ctx, upload.Data, storage.SaveOptions{
			Category:  imageCategory,
			Extension: upload.Extension,
		})
		if err != nil {
			s.cleanupFiles(ctx, saved)
			return fmt.Errorf("save image: %w", err)
		}
		saved = append(saved, key)
	}

	images := make([]entity.DbProductImage, 0, len(saved))
	for _, key := range saved {
		images = append(images, entity.DbProductImage{Path: key})
	}

	if err := s.repo.AddProductImages(ctx, productID, images, primaryIndex); err != nil {
		s.cleanupFiles(ctx, saved)
		return err
	}
	return nil
}

// CreateProduct 保存图片文件后在单个事务里创建商品及其图片记录。
// 第一张图片成为主图。数据库写入失败时尽力清理已保存的文件。
func (s *CatalogService) CreateProduct(ctx context.Context, product *entity.DbProduct, uploads []ImageUpload) error {
	if s == nil || s.repo == nil {
		return errors.New("catalog service not initialised")
	}
	if product == nil {
		return errors.New("product is nil")
	}

	saved := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if s.store == nil {
			return errors.New("storage not configured")
		}
		key, err := s.store.Save(ctx, upload.Data, storage.SaveOptions{
			Category:  imageCategory,
			Extension: upload.Extension,
		})
		if err != nil {
			s.cleanupFiles(ctx, saved)
			return fmt.Errorf("save image: %w", err)
		}
		saved = append(saved, key)
	}

	product.Images = make([]entity.DbProductImage, 0, len(saved))
	for idx, key := range saved {
		product.Images = append(product.Images, entity.DbProductImage{
			Path:      key,
			IsPrimary: idx == 0,
		})
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		s.cleanupFiles(ctx, saved)
		return err
	}
	return nil
}

// SetPrimaryImage 将指定图片设为主图。
func (s *CatalogService) SetPrimaryImage(ctx context.Context, productID, imageID uint) error {
	if s == nil || s.repo == nil {
		return errors.New("catalog service not initialised")
	}
	return s.repo.SetPrimaryImage(ctx, productID, imageID)
}

// DeleteProductImage 删除图片记录并尽力移除底层文件。
func (s *CatalogService) DeleteProductImage(ctx context.Context, productID, imageID uint) error {
	if s == nil || s.repo == nil {
		return errors.New("catalog service not initialised")
	}

	image, err := s.repo.GetProductImage(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProductImage(ctx, productID, imageID); err != nil {
		return err
	}
	s.cleanupFiles(ctx, []string{image.Path})
	return nil
}

// DeleteProduct 删除商品及其图片记录，然后尽力清理文件。
func (s *CatalogService) DeleteProduct(ctx context.Context, productID uint) error {
	if s == nil || s.repo == nil {
		return errors.New("catalog service not initialised")
	}

	images, err := s.repo.ListProductImages(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	paths := make([]string, 0, len(images))
	for _, image := range images {
		paths = append(paths, image.Path)
	}
	s.cleanupFiles(ctx, paths)
	return nil
}

func (s *CatalogService) cleanupFiles(ctx context.Context, keys []string) {
	if s.store == nil {
		return
	}
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("remove stored image failed")
		}
	}
}
