package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusPaid},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusPaid, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPaid, OrderStatusCancelled},
		{OrderStatusPaid, OrderStatusPending},
		{OrderStatusShipped, OrderStatusPaid},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusPaid},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}
}

func TestOrderStatusRevenue(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered} {
		if !status.IsRevenue() {
			t.Fatalf("expected %s to count toward revenue", status)
		}
	}
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusCancelled} {
		if status.IsRevenue() {
			t.Fatalf("expected %s to be excluded from revenue", status)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("paid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
