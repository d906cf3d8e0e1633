package session

import (
	"encoding/json"
	"testing"

	"github.com/hatstore-next/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromString(t *testing.T, value string) models.Money {
	t.Helper()
	money, err := models.NewMoneyFromString(value)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", value, err)
	}
	return money
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Navy Twill Cap", Price: moneyFromString(t, "24.99"), Quantity: 2})
	line := cart.Add(CartLine{ProductID: 1, Name: "Navy Twill Cap", Price: moneyFromString(t, "24.99"), Quantity: 3})

	if len(cart.Items) != 1 {
		t.Fatalf("expected single line, got %d", len(cart.Items))
	}
	if line.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", line.Quantity)
	}
}

func TestCartAddKeepsOriginalSnapshot(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Navy Twill Cap", Price: moneyFromString(t, "24.99"), Quantity: 1})

	// 再次加入同一商品时传入不同快照，应保留首次的名称与价格
	line := cart.Add(CartLine{ProductID: 1, Name: "Renamed Cap", Price: moneyFromString(t, "99.99"), Quantity: 1})

	if line.Name != "Navy Twill Cap" {
		t.Fatalf("expected original name snapshot, got %q", line.Name)
	}
	if !line.Price.Decimal.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("expected original price snapshot, got %s", line.Price.Decimal)
	}
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Beanie", Price: moneyFromString(t, "34.50"), Quantity: 2})

	if _, ok := cart.UpdateQuantity(1, 0); !ok {
		t.Fatal("expected update with quantity 0 to report the removed line")
	}
	if !cart.IsEmpty() {
		t.Fatal("expected cart to be empty after quantity 0 update")
	}
}

func TestCartUpdateQuantityMissingLine(t *testing.T) {
	cart := &Cart{}
	if _, ok := cart.UpdateQuantity(42, 3); ok {
		t.Fatal("expected update of missing line to return false")
	}
}

func TestCartRemoveIdempotent(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Fedora", Price: moneyFromString(t, "68.00"), Quantity: 1})

	if _, ok := cart.Remove(1); !ok {
		t.Fatal("expected first remove to succeed")
	}
	if _, ok := cart.Remove(1); ok {
		t.Fatal("expected second remove to report missing line")
	}
	if !cart.IsEmpty() {
		t.Fatal("expected cart to stay empty")
	}
}

func TestCartSubtotalExactDecimal(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Corduroy Dad Hat", Price: moneyFromString(t, "29.99"), Quantity: 2})

	want := decimal.RequireFromString("59.98")
	if !cart.Subtotal().Decimal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, cart.Subtotal().Decimal)
	}

	cart.Add(CartLine{ProductID: 2, Name: "Straw Sun Hat", Price: moneyFromString(t, "45.00"), Quantity: 3})
	want = decimal.RequireFromString("194.98")
	if !cart.Subtotal().Decimal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, cart.Subtotal().Decimal)
	}
}

func TestCartSnapshotTotals(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 1, Name: "Cap", Price: moneyFromString(t, "10.00"), Quantity: 2})
	cart.Add(CartLine{ProductID: 2, Name: "Beanie", Price: moneyFromString(t, "5.50"), Quantity: 1})

	snapshot := cart.Snapshot()
	if snapshot.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", snapshot.TotalItems)
	}
	if !snapshot.Subtotal.Decimal.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("unexpected subtotal: %s", snapshot.Subtotal.Decimal)
	}

	// 投影是副本，改动不回写购物车
	snapshot.Items[0].Quantity = 99
	if cart.Items[0].Quantity != 2 {
		t.Fatal("snapshot mutation leaked into cart")
	}
}

func TestCartOrderSurvivesJSONRoundTrip(t *testing.T) {
	cart := &Cart{}
	cart.Add(CartLine{ProductID: 3, Name: "Third", Price: moneyFromString(t, "1.00"), Quantity: 1})
	cart.Add(CartLine{ProductID: 1, Name: "First", Price: moneyFromString(t, "1.00"), Quantity: 1})
	cart.Add(CartLine{ProductID: 2, Name: "Second", Price: moneyFromString(t, "1.00"), Quantity: 1})

	payload, err := json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal cart failed: %v", err)
	}
	var restored Cart
	if err := json.Unmarshal(payload, &restored); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}

	wantOrder := []uint{3, 1, 2}
	for i, want := range wantOrder {
		if restored.Items[i].ProductID != want {
			t.Fatalf("expected product %d at position %d, got %d", want, i, restored.Items[i].ProductID)
		}
	}
}
