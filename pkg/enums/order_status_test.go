package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusConfirmed},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("expected delivered and cancelled to be terminal")
	}
	if OrderStatusPending.IsTerminal() || OrderStatusShipped.IsTerminal() {
		t.Fatal("expected pending and shipped to be non-terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseOrderStatus("confirmed")
	if err != nil || status != OrderStatusConfirmed {
		t.Fatalf("unexpected result: %v %v", status, err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
