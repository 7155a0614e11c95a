package seed

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/testutil"
)

func TestSeed(t *testing.T) {
	s := testutil.SetupTestStorage(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	counts, err := Seed(ctx, s, 12, now)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	expected := map[string]int{
		storage.CategoriesEntity:       4,
		storage.SubCategoriesEntity:    7,
		storage.PaymentModesEntity:     4,
		storage.MeasurementUnitsEntity: 3,
		storage.GiftCardsEntity:        12,
		storage.InventoryEntity:        24,
	}
	for entity, count := range expected {
		if counts[entity] != count {
			t.Errorf("expected %d %s, got %d", count, entity, counts[entity])
		}
	}

	page, err := s.GiftCards().Paginate(ctx, listquery.Request{
		Page:     1,
		Limit:    100,
		FilterBy: []listquery.AppliedFilter{{FieldName: "status", Value: listquery.FilterValue{storage.GiftCardRedeemed}}},
	})
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	for _, card := range page.Data {
		if card.Balance != 0 {
			t.Errorf("expected redeemed card %s to have no balance, got %d", card.Code, card.Balance)
		}
	}

	if _, err = Seed(ctx, s, 1, now); !errors.Is(err, errNotEmpty) {
		t.Errorf("expected seeding twice to fail with errNotEmpty, got %v", err)
	}
}

func TestSeedCommand(t *testing.T) {
	s := testutil.SetupTestStorage(t)

	var out bytes.Buffer
	cmd := &seedCommand{giftCards: 5, out: &out}

	if err := cmd.Run(&config.Config{Timezone: "UTC"}, s, testutil.TestLogger(t)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if !strings.Contains(out.String(), "gift-cards") || !strings.Contains(out.String(), " 5\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
