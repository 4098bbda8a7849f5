package sql

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"lenshive/internal/entity"

	"gorm.io/gorm"
)

func TestProductVariantListsRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	product := &entity.DbProduct{
		Name:        "Aviator Classic",
		Description: "Timeless frame",
		Price:       129.99,
		Stock:       12,
		Category:    entity.ProductCategoryUnisex,
		Brand:       "LensHive",
		FrameColors: entity.ParseTokenList("Obsidian,Silver,Gray,Rose"),
		Sizes:       entity.ParseTokenList("Small,Medium,Large"),
		LensOptions: entity.ParseTokenList("Frame only,Customize Lenses"),
		IsAvailable: true,
	}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	loaded, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	expected := []string{"Obsidian", "Silver", "Gray", "Rose"}
	if !reflect.DeepEqual(loaded.FrameColors.ToSlice(), expected) {
		t.Fatalf("expected colors %v, got %v", expected, loaded.FrameColors)
	}
	if !reflect.DeepEqual(loaded.Sizes.ToSlice(), []string{"Small", "Medium", "Large"}) {
		t.Fatalf("unexpected sizes: %v", loaded.Sizes)
	}
	if !reflect.DeepEqual(loaded.LensOptions.ToSlice(), []string{"Frame only", "Customize Lenses"}) {
		t.Fatalf("unexpected lens options: %v", loaded.LensOptions)
	}
}

func TestCreateProductWithImagesSingleTransaction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	product := &entity.DbProduct{
		Name:  "Wayfarer",
		Price: 89,
		Images: []entity.DbProductImage{
			{Path: "products/front.jpg", IsPrimary: true},
			{Path: "products/side.jpg"},
		},
	}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	loaded, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if len(loaded.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(loaded.Images))
	}
	if !loaded.Images[0].IsPrimary || loaded.Images[0].Path != "products/front.jpg" {
		t.Fatalf("expected primary image first, got %+v", loaded.Images[0])
	}
}

func TestListProductsFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := []entity.DbProduct{
		{Name: "Aviator", Brand: "LensHive", Category: entity.ProductCategoryMen, Price: 100, IsAvailable: true},
		{Name: "Cat Eye", Brand: "LensHive", Category: entity.ProductCategoryWomen, Price: 120, IsAvailable: true, IsBestseller: true},
		{Name: "Sport Wrap", Brand: "Volt", Category: entity.ProductCategoryMen, Price: 80, IsAvailable: false},
	}
	for i := range seed {
		if err := repo.CreateProduct(ctx, &seed[i]); err != nil {
			t.Fatalf("failed to seed product: %v", err)
		}
	}

	men, meta, err := repo.ListProducts(ctx, &entity.ProductQuery{Category: entity.ProductCategoryMen})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if meta.Total != 2 || len(men) != 2 {
		t.Fatalf("expected 2 men's products, got %d (total %d)", len(men), meta.Total)
	}

	available, _, err := repo.ListProducts(ctx, &entity.ProductQuery{OnlyAvailable: true})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected 2 available products, got %d", len(available))
	}

	bestsellers, _, err := repo.ListProducts(ctx, &entity.ProductQuery{OnlyBestsellers: true})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(bestsellers) != 1 || bestsellers[0].Name != "Cat Eye" {
		t.Fatalf("unexpected bestseller result: %+v", bestsellers)
	}

	byKeyword, _, err := repo.ListProducts(ctx, &entity.ProductQuery{Keyword: "volt"})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(byKeyword) != 1 || byKeyword[0].Name != "Sport Wrap" {
		t.Fatalf("unexpected keyword result: %+v", byKeyword)
	}
}

func TestDeleteProductRemovesImages(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	product := &entity.DbProduct{
		Name:  "Doomed",
		Price: 10,
		Images: []entity.DbProductImage{
			{Path: "products/doomed.jpg", IsPrimary: true},
		},
	}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	if err := repo.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}

	if _, err := repo.GetProduct(ctx, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	images, err := repo.ListProductImages(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to list images: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected images to be removed, got %d", len(images))
	}
}
