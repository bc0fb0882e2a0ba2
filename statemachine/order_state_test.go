package statemachine

import (
	"testing"

	"bistroboard/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		actor   string
		wantErr bool
	}{
		{"vendor confirms pending", models.OrderPending, models.OrderConfirmed, "vendor", false},
		{"vendor fulfills confirmed", models.OrderConfirmed, models.OrderFulfilled, "vendor", false},
		{"vendor fulfills pending directly", models.OrderPending, models.OrderFulfilled, "vendor", false},
		{"restaurant cannot confirm", models.OrderPending, models.OrderConfirmed, "restaurant", true},
		{"no backwards transition", models.OrderConfirmed, models.OrderPending, "vendor", true},
		{"fulfilled is terminal", models.OrderFulfilled, models.OrderConfirmed, "vendor", true},
		{"unknown literal rejected", models.OrderConfirmed, "shipped", "vendor", true},
		{"unknown literal from pending", models.OrderPending, "cancelled", "vendor", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Errorf("CanTransition(%s, %s, %s) error = %v, wantErr %v",
					tt.from, tt.to, tt.actor, err, tt.wantErr)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderFulfilled} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []models.OrderStatus{"shipped", "cancelled", "", "PENDING"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = true, want false", s)
		}
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.OrderPending)
	if len(nexts) != 2 {
		t.Fatalf("expected 2 next states from pending, got %v", nexts)
	}
	if got := ValidTransitionsFrom(models.OrderFulfilled); len(got) != 0 {
		t.Errorf("fulfilled should be terminal, got next states %v", got)
	}
}
