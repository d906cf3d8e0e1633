package service

import (
	"errors"
	"testing"

	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestProductService(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db))
	if err := db.Create(&models.Category{Name: "Caps", Slug: "caps"}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return svc, db
}

func TestProductServiceCreateDerivesSlug(t *testing.T) {
	svc, _ := newTestProductService(t)

	product, err := svc.Create(SaveProductInput{
		Name:       "Navy Twill Cap",
		Price:      "24.99",
		CategoryID: 1,
		Stock:      10,
		IsActive:   true,
		ImageURLs:  []string{"https://img.example/a.jpg", "https://img.example/b.jpg"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Slug != "navy-twill-cap" {
		t.Fatalf("expected derived slug, got %q", product.Slug)
	}
	if !product.Price.Decimal.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("unexpected price: %s", product.Price.Decimal)
	}
	if len(product.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(product.Images))
	}
	if !product.Images[0].IsPrimary || product.Images[1].IsPrimary {
		t.Fatal("expected only the first image to be primary")
	}
}

func TestProductServiceCreateValidation(t *testing.T) {
	svc, _ := newTestProductService(t)

	if _, err := svc.Create(SaveProductInput{Name: "  ", Price: "1.00", CategoryID: 1}); !errors.Is(err, ErrProductNameRequired) {
		t.Fatalf("expected ErrProductNameRequired, got %v", err)
	}
	if _, err := svc.Create(SaveProductInput{Name: "Hat", Price: "free", CategoryID: 1}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := svc.Create(SaveProductInput{Name: "Hat", Price: "-1.00", CategoryID: 1}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice for negative, got %v", err)
	}
	if _, err := svc.Create(SaveProductInput{Name: "Hat", Price: "1.00", CategoryID: 99}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestProductServiceCreateSlugConflict(t *testing.T) {
	svc, _ := newTestProductService(t)

	if _, err := svc.Create(SaveProductInput{Name: "Felt Fedora", Price: "68.00", CategoryID: 1}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(SaveProductInput{Name: "Another Hat", Slug: "felt-fedora", Price: "10.00", CategoryID: 1})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestProductServiceGetBySlugActiveOnly(t *testing.T) {
	svc, db := newTestProductService(t)

	if _, err := svc.Create(SaveProductInput{Name: "Retired Hat", Price: "15.00", CategoryID: 1, IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("slug = ?", "retired-hat").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.GetBySlug("retired-hat", true); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive product, got %v", err)
	}
	if _, err := svc.GetBySlug("retired-hat", false); err != nil {
		t.Fatalf("expected admin lookup to find inactive product, got %v", err)
	}
}

func TestProductServiceDelete(t *testing.T) {
	svc, db := newTestProductService(t)

	product, err := svc.Create(SaveProductInput{Name: "Doomed Hat", Price: "5.00", CategoryID: 1, IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	if count != 0 {
		t.Fatal("expected product to be soft deleted from default scope")
	}

	if err := svc.Delete(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}
