package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hatstore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, db *gorm.DB, orderNo, email, status string, userID *uint) *models.Order {
	t.Helper()
	address := &models.ShippingAddress{Name: "Test", AddressLine1: "1 Main St", City: "Springfield", Country: "United States"}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	order := &models.Order{
		OrderNo:           orderNo,
		UserID:            userID,
		Email:             email,
		Status:            status,
		TotalPrice:        models.NewMoneyFromDecimal(decimal.RequireFromString("24.99")),
		ShippingAddressID: address.ID,
	}
	items := []models.OrderItem{
		{ProductName: "Navy Twill Cap", Quantity: 1, PriceAtPurchase: models.NewMoneyFromDecimal(decimal.RequireFromString("24.99"))},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryCreateSetsItemOrderID(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	order := createTestOrder(t, repo, db, "HS20260101000000000001", "a@example.com", "pending", nil)

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ProductName != "Navy Twill Cap" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestOrderRepositoryGetByIDPreloadsDetail(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	order := createTestOrder(t, repo, db, "HS20260101000000000002", "b@example.com", "pending", nil)

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected order, got nil")
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected preloaded items, got %d", len(got.Items))
	}
	if got.ShippingAddress.AddressLine1 != "1 Main St" {
		t.Fatalf("expected preloaded address, got %+v", got.ShippingAddress)
	}

	missing, err := repo.GetByID(99999)
	if err != nil {
		t.Fatalf("get missing order errored: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing order")
	}
}

func TestOrderRepositoryGetByIDAndUser(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	owner := uint(7)
	order := createTestOrder(t, repo, db, "HS20260101000000000003", "c@example.com", "pending", &owner)

	got, err := repo.GetByIDAndUser(order.ID, owner)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected owner to see the order")
	}

	other, err := repo.GetByIDAndUser(order.ID, 8)
	if err != nil {
		t.Fatalf("get order as other user errored: %v", err)
	}
	if other != nil {
		t.Fatal("expected other user to be denied the order")
	}
}

func TestOrderRepositoryListAdminFilters(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	createTestOrder(t, repo, db, "HS20260101000000000010", "x@example.com", "pending", nil)
	createTestOrder(t, repo, db, "HS20260101000000000011", "x@example.com", "shipped", nil)
	createTestOrder(t, repo, db, "HS20260101000000000012", "y@example.com", "pending", nil)

	orders, total, err := repo.ListAdmin(OrderListFilter{Email: "x@example.com", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by email failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for email filter, got total=%d len=%d", total, len(orders))
	}

	orders, total, err = repo.ListAdmin(OrderListFilter{Status: "shipped", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 || orders[0].OrderNo != "HS20260101000000000011" {
		t.Fatalf("unexpected status filter result: total=%d", total)
	}

	orders, total, err = repo.ListAdmin(OrderListFilter{OrderNo: "HS20260101000000000012", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by order no failed: %v", err)
	}
	if total != 1 || orders[0].Email != "y@example.com" {
		t.Fatalf("unexpected order-no filter result: total=%d", total)
	}
}

func TestOrderRepositoryListByUserRequiresUserID(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	owner := uint(3)
	createTestOrder(t, repo, db, "HS20260101000000000020", "u@example.com", "pending", &owner)
	createTestOrder(t, repo, db, "HS20260101000000000021", "anon@example.com", "pending", nil)

	orders, total, err := repo.ListByUser(OrderListFilter{UserID: owner, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("expected only the owner's order, got total=%d", total)
	}

	orders, total, err = repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list without user id errored: %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Fatal("expected empty result without user id, anonymous orders must stay hidden")
	}
}
