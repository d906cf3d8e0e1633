package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalFixedTwoDecimals(t *testing.T) {
	money := NewMoneyFromDecimal(decimal.RequireFromString("24.9"))
	got, err := json.Marshal(money)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(got) != `"24.90"` {
		t.Fatalf("expected \"24.90\", got %s", got)
	}
}

func TestMoneyUnmarshalStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"59.98"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if !fromString.Decimal.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("unexpected value: %s", fromString.Decimal)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`59.98`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromNumber.Decimal.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("unexpected value: %s", fromNumber.Decimal)
	}
}

func TestMoneyRoundsToTwoDecimals(t *testing.T) {
	money, err := NewMoneyFromString("10.005")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if money.String() != "10.01" {
		t.Fatalf("expected 10.01, got %s", money.String())
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{
		Quantity:        3,
		PriceAtPurchase: NewMoneyFromDecimal(decimal.RequireFromString("29.99")),
	}
	if !item.Subtotal().Decimal.Equal(decimal.RequireFromString("89.97")) {
		t.Fatalf("expected 89.97, got %s", item.Subtotal().Decimal)
	}
}
