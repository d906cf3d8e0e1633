package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hatstore-next/internal/constants"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/queue"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/session"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
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

func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewShippingAddressRepository(db),
		queueClient,
	)
}

func createTestProduct(t *testing.T, db *gorm.DB, name, slug, price string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       name,
		Slug:       slug,
		Price:      mustMoney(t, price),
		Stock:      10,
		IsActive:   active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func mustMoney(t *testing.T, value string) models.Money {
	t.Helper()
	money, err := models.NewMoneyFromString(value)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", value, err)
	}
	return money
}

func testCheckoutInput() CheckoutInput {
	return CheckoutInput{
		Email:        "buyer@example.com",
		Name:         "Alex Buyer",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
	}
}

func TestCreateOrderFromCartEmptyCart(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	sess := session.New()

	_, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	var orderCount, addressCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.ShippingAddress{}).Count(&addressCount)
	if orderCount != 0 || addressCount != 0 {
		t.Fatalf("empty-cart checkout must not write rows, got orders=%d addresses=%d", orderCount, addressCount)
	}
}

func TestCreateOrderFromCartSuccess(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Corduroy Dad Hat", "corduroy-dad-hat", "29.99", true)

	sess := session.New()
	sess.Cart.Add(session.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  2,
	})

	order, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %q", order.Status)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("expected total 59.98, got %s", order.TotalPrice.Decimal)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductID == nil || *item.ProductID != product.ID {
		t.Fatalf("expected item to reference product %d, got %+v", product.ID, item.ProductID)
	}
	if item.ProductName != "Corduroy Dad Hat" || item.Quantity != 2 {
		t.Fatalf("unexpected item snapshot: %+v", item)
	}

	if !sess.Cart.IsEmpty() {
		t.Fatal("expected cart to be cleared after successful checkout")
	}
	if !sess.Dirty() {
		t.Fatal("expected session to be marked dirty so the cleared cart gets committed")
	}

	// 落库的订单应能按 ID 取回，且带订单项与地址
	stored, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected reloaded order to include items, got %d", len(stored.Items))
	}
	if stored.ShippingAddress.AddressLine1 != "1 Main St" {
		t.Fatalf("unexpected shipping address: %+v", stored.ShippingAddress)
	}
	if stored.ShippingAddress.Country != constants.DefaultShippingCountry {
		t.Fatalf("expected default country, got %q", stored.ShippingAddress.Country)
	}
}

func TestCreateOrderFromCartVanishedProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Felt Fedora", "felt-fedora", "68.00", true)

	sess := session.New()
	sess.Cart.Add(session.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})

	// 加入购物车后商品被删除
	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	order, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if err != nil {
		t.Fatalf("checkout with vanished product failed: %v", err)
	}
	if order.Items[0].ProductID != nil {
		t.Fatal("expected nil product reference for vanished product")
	}
	if order.Items[0].ProductName != "Felt Fedora" {
		t.Fatalf("expected snapshot name to survive, got %q", order.Items[0].ProductName)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.RequireFromString("68.00")) {
		t.Fatalf("expected total 68.00, got %s", order.TotalPrice.Decimal)
	}
}

func TestCreateOrderFromCartConcurrentCheckoutRejected(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Navy Twill Cap", "navy-twill-cap", "24.99", true)

	sess := session.New()
	sess.Cart.Add(session.CartLine{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1})

	unlock, ok := svc.lockCheckout(sess.ID)
	if !ok {
		t.Fatal("expected to acquire checkout lock")
	}
	defer unlock()

	_, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if !errors.Is(err, ErrCheckoutInFlight) {
		t.Fatalf("expected ErrCheckoutInFlight while lock is held, got %v", err)
	}
	if sess.Cart.IsEmpty() {
		t.Fatal("rejected checkout must not consume the cart")
	}
}

func TestOrderServiceGetByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)

	_, err := svc.GetByID(12345)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Merino Wool Beanie", "merino-wool-beanie", "34.50", true)

	sess := session.New()
	sess.Cart.Add(session.CartLine{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1})
	order, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, "teleported"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %q", updated.Status)
	}

	stored, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusShipped {
		t.Fatalf("expected persisted status shipped, got %q", stored.Status)
	}
}

func TestOrderServiceGetByOrderNo(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Navy Twill Cap", "navy-twill-cap", "24.99", true)

	sess := session.New()
	cartSvc := NewCartService(repository.NewProductRepository(db))
	if _, err := cartSvc.AddItem(sess, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := svc.CreateOrderFromCart(sess, testCheckoutInput())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	got, err := svc.GetByOrderNo(order.OrderNo)
	if err != nil {
		t.Fatalf("get by order no failed: %v", err)
	}
	if got.ID != order.ID || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}

	if _, err := svc.GetByOrderNo("HS00000000000000000000"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderServiceGetByIDForUser(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(t, db)
	product := createTestProduct(t, db, "Merino Wool Beanie", "merino-wool-beanie", "34.50", true)

	owner := uint(7)
	sess := session.New()
	cartSvc := NewCartService(repository.NewProductRepository(db))
	if _, err := cartSvc.AddItem(sess, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	input := testCheckoutInput()
	input.UserID = &owner
	order, err := svc.CreateOrderFromCart(sess, input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	got, err := svc.GetByIDForUser(order.ID, owner)
	if err != nil {
		t.Fatalf("get own order failed: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("unexpected order: %+v", got)
	}

	// 他人的订单按未找到处理
	if _, err := svc.GetByIDForUser(order.ID, 8); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for other user, got %v", err)
	}
}
