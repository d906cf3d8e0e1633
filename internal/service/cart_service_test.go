package service

import (
	"errors"
	"testing"

	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/session"

	"github.com/shopspring/decimal"
)

func TestCartServiceAddItemSnapshotsProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	product := createTestProduct(t, db, "Straw Sun Hat", "straw-sun-hat", "45.00", true)
	if err := db.Create(&models.ProductImage{ProductID: product.ID, ImageURL: "https://img.example/straw.jpg", IsPrimary: true}).Error; err != nil {
		t.Fatalf("create image failed: %v", err)
	}

	sess := session.New()
	line, err := svc.AddItem(sess, product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if line.Name != "Straw Sun Hat" {
		t.Fatalf("expected name snapshot, got %q", line.Name)
	}
	if !line.Price.Decimal.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("expected price snapshot 45.00, got %s", line.Price.Decimal)
	}
	if line.ImageURL != "https://img.example/straw.jpg" {
		t.Fatalf("expected primary image snapshot, got %q", line.ImageURL)
	}
	if !sess.Dirty() {
		t.Fatal("expected session to be marked dirty after add")
	}
}

func TestCartServiceAddItemPriceChangeKeepsSnapshot(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	product := createTestProduct(t, db, "Navy Twill Cap", "navy-twill-cap", "24.99", true)

	sess := session.New()
	if _, err := svc.AddItem(sess, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 商品涨价后购物车里的行保持加入时的价格
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", mustMoney(t, "39.99")).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	line, ok := sess.Cart.Line(product.ID)
	if !ok {
		t.Fatal("expected cart line to exist")
	}
	if !line.Price.Decimal.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("expected snapshot price 24.99, got %s", line.Price.Decimal)
	}
}

func TestCartServiceAddItemInvalidQuantity(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	product := createTestProduct(t, db, "Cap", "cap-invalid-qty", "10.00", true)

	sess := session.New()
	if _, err := svc.AddItem(sess, product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for 0, got %v", err)
	}
	if _, err := svc.AddItem(sess, product.ID, -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for -2, got %v", err)
	}
}

func TestCartServiceAddItemInactiveProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	product := createTestProduct(t, db, "Retired Hat", "retired-hat", "15.00", false)

	sess := session.New()
	if _, err := svc.AddItem(sess, product.ID, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable for inactive product, got %v", err)
	}
}

func TestCartServiceAddItemUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))

	sess := session.New()
	if _, err := svc.AddItem(sess, 9999, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable for unknown product, got %v", err)
	}
}

func TestCartServiceUpdateAndRemove(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	product := createTestProduct(t, db, "Beanie", "beanie-update", "34.50", true)

	sess := session.New()
	if _, err := svc.AddItem(sess, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	line, err := svc.UpdateQuantity(sess, product.ID, 5)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", line.Quantity)
	}

	// 数量归零等价删除
	if _, err := svc.UpdateQuantity(sess, product.ID, 0); err != nil {
		t.Fatalf("zero quantity update failed: %v", err)
	}
	if !sess.Cart.IsEmpty() {
		t.Fatal("expected empty cart after zero quantity update")
	}

	// 再删一次：行已不存在
	if _, err := svc.RemoveItem(sess, product.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartServiceUpdateQuantityAbsentLine(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(repository.NewProductRepository(db))
	sess := session.New()

	// 数量 ≤ 0 时行不存在视为删除成功
	if _, err := svc.UpdateQuantity(sess, 42, 0); err != nil {
		t.Fatalf("expected nil for zero quantity on absent line, got %v", err)
	}
	if _, err := svc.UpdateQuantity(sess, 42, -1); err != nil {
		t.Fatalf("expected nil for negative quantity on absent line, got %v", err)
	}
	if sess.Dirty() {
		t.Fatal("no-op delete must not mark the session dirty")
	}

	// 正数数量仍要求行存在
	if _, err := svc.UpdateQuantity(sess, 42, 3); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}
