package storage

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	issued := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	before := issued.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		record     any
		wantFields []string
	}{
		{
			name:   "valid category",
			record: Category{Name: "Massage", Status: StatusActive},
		},
		{
			name:       "category without name and unknown status",
			record:     Category{Status: "archived"},
			wantFields: []string{"name", "status"},
		},
		{
			name:       "sub category without parent",
			record:     SubCategory{Name: "Thai", Status: StatusActive},
			wantFields: []string{"categoryId"},
		},
		{
			name:       "payment mode with unknown type",
			record:     PaymentMode{Name: "Crypto", Type: "bitcoin", Status: StatusActive},
			wantFields: []string{"type"},
		},
		{
			name: "gift card balance above amount and expiry before issue",
			record: GiftCard{
				Code:      "GOLD2024",
				OutletID:  1,
				Amount:    5000,
				Balance:   6000,
				IssuedOn:  issued,
				ExpiresOn: &before,
				Status:    GiftCardActive,
			},
			wantFields: []string{"balance", "expiresOn"},
		},
		{
			name:       "gift card code with symbols",
			record:     GiftCard{Code: "GO-LD", OutletID: 1, Amount: 100, IssuedOn: issued, Status: GiftCardActive},
			wantFields: []string{"code"},
		},
		{
			name:       "inventory item with negative quantity",
			record:     InventoryItem{Name: "Oil", SKU: "OIL-1", OutletID: 1, Quantity: -1},
			wantFields: []string{"quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}

			if len(validationErr.Fields) != len(tt.wantFields) {
				t.Errorf("expected %d invalid fields, got %v", len(tt.wantFields), validationErr.Fields)
			}
			for _, field := range tt.wantFields {
				if _, ok := validationErr.Fields[field]; !ok {
					t.Errorf("expected field %q to be invalid, got %v", field, validationErr.Fields)
				}
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"status": "is required", "name": "is required"}}

	expected := "invalid record: name is required, status is required"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestInventoryLowStock(t *testing.T) {
	tests := []struct {
		item     InventoryItem
		expected bool
	}{
		{item: InventoryItem{Quantity: 2, ReorderLevel: 5}, expected: true},
		{item: InventoryItem{Quantity: 5, ReorderLevel: 5}, expected: true},
		{item: InventoryItem{Quantity: 6, ReorderLevel: 5}, expected: false},
		{item: InventoryItem{Quantity: 0, ReorderLevel: 0}, expected: false},
	}

	for _, tt := range tests {
		if got := tt.item.LowStock(); got != tt.expected {
			t.Errorf("LowStock() for %+v = %v, want %v", tt.item, got, tt.expected)
		}
	}
}
