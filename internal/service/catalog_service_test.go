package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lenshive/internal/config"
	"lenshive/internal/entity"
	"lenshive/internal/model"
	"lenshive/internal/storage"

	"gorm.io/gorm"
)

func newTestCatalogService(t *testing.T) (*CatalogService, model.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		DBType: "sqlite",
		DBPath: filepath.Join(dir, "test.db"),
	}
	repo, err := model.InitRepository(cfg)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	mediaDir := filepath.Join(dir, "media")
	store, err := storage.NewLocalStorage(mediaDir)
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	return NewCatalogService(repo, store), repo, mediaDir
}

func TestStoreProductImagesWritesFilesAndRecords(t *testing.T) {
	svc, repo, mediaDir := newTestCatalogService(t)
	ctx := context.Background()

	product := &entity.DbProduct{Name: "Round Metal", Price: 75}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	uploads := []ImageUpload{
		{Data: []byte("front"), Extension: "jpg"},
		{Data: []byte("side"), Extension: "png"},
	}
	if err := svc.StoreProductImages(ctx, product.ID, uploads, 1); err != nil {
		t.Fatalf("failed to store images: %v", err)
	}

	images, err := repo.ListProductImages(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to list images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	for _, image := range images {
		if _, err := os.Stat(filepath.Join(mediaDir, filepath.FromSlash(image.Path))); err != nil {
			t.Fatalf("stored file missing for %s: %v", image.Path, err)
		}
	}
}

func TestStoreProductImagesUnknownProduct(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	err := svc.StoreProductImages(context.Background(), 9999, []ImageUpload{{Data: []byte("x"), Extension: "jpg"}}, -1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeleteProductImageRemovesFile(t *testing.T) {
	svc, repo, mediaDir := newTestCatalogService(t)
	ctx := context.Background()

	product := &entity.DbProduct{Name: "Clubmaster", Price: 95}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	if err := svc.StoreProductImages(ctx, product.ID, []ImageUpload{{Data: []byte("only"), Extension: "jpg"}}, -1); err != nil {
		t.Fatalf("failed to store image: %v", err)
	}

	images, err := repo.ListProductImages(ctx, product.ID)
	if err != nil || len(images) != 1 {
		t.Fatalf("unexpected image listing: %v (%d)", err, len(images))
	}

	if err := svc.DeleteProductImage(ctx, product.ID, images[0].ID); err != nil {
		t.Fatalf("failed to delete image: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mediaDir, filepath.FromSlash(images[0].Path))); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err: %v", err)
	}
}

func TestDeleteProductCleansUpFiles(t *testing.T) {
	svc, repo, mediaDir := newTestCatalogService(t)
	ctx := context.Background()

	product := &entity.DbProduct{Name: "Doomed", Price: 30}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	if err := svc.StoreProductImages(ctx, product.ID, []ImageUpload{
		{Data: []byte("a"), Extension: "jpg"},
		{Data: []byte("b"), Extension: "jpg"},
	}, -1); err != nil {
		t.Fatalf("failed to store images: %v", err)
	}

	images, err := repo.ListProductImages(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to list images: %v", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	if _, err := repo.GetProduct(ctx, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected product to be gone, got %v", err)
	}
	for _, image := range images {
		if _, err := os.Stat(filepath.Join(mediaDir, filepath.FromSlash(image.Path))); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, stat err: %v", image.Path, err)
		}
	}
}
