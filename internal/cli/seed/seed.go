package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

const (
	defaultGiftCards = 40
	outlets          = 3
)

var errNotEmpty = errors.New("database already has categories, refusing to seed")

type seedCommand struct {
	giftCards int
	remote    cli.Remote
	out       io.Writer
}

func NewCommand() cli.Command {
	return &seedCommand{out: os.Stdout}
}

func (c *seedCommand) Description() string {
	return "Insert demo data into an empty database"
}

func (c *seedCommand) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.giftCards, "n", defaultGiftCards, "number of gift cards")
	c.remote.SetFlags(fs)
}

func (c *seedCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	repos, err := c.remote.Repositories(s)
	if err != nil {
		return err
	}

	counts, err := Seed(context.Background(), repos, c.giftCards, time.Now().In(conf.Location()))
	if err != nil {
		return err
	}

	for _, entity := range []string{
		storage.CategoriesEntity,
		storage.SubCategoriesEntity,
		storage.PaymentModesEntity,
		storage.MeasurementUnitsEntity,
		storage.GiftCardsEntity,
		storage.InventoryEntity,
	} {
		logger.Debug("Seeded entity", "entity", entity, "count", counts[entity])
		fmt.Fprintf(c.out, "%-18s %d\n", entity, counts[entity])
	}
	return nil
}

// Seed fills an empty database with demo records and returns how many it created per
// entity. Gift cards are issued on the days before now.
func Seed(ctx context.Context, repos storage.Repositories, giftCards int, now time.Time) (map[string]int, error) {
	existing, err := repos.Categories().Paginate(ctx, listquery.Request{Page: 1, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to check categories: %w", err)
	}
	if existing.TotalCount > 0 {
		return nil, errNotEmpty
	}

	counts := map[string]int{}

	categories := map[string][]string{
		"Massage": {"Swedish", "Deep tissue", "Hot stone"},
		"Facial":  {"Hydrating", "Anti-ageing"},
		"Nails":   {"Manicure", "Pedicure"},
		"Retail":  {},
	}
	categoryIDs := map[string]int64{}
	for _, name := range []string{"Massage", "Facial", "Nails", "Retail"} {
		id, createErr := repos.Categories().Create(ctx, storage.Category{
			Name:        name,
			Description: name + " services",
			Status:      storage.StatusActive,
		})
		if createErr != nil {
			return counts, fmt.Errorf("failed to create category %s: %w", name, createErr)
		}
		categoryIDs[name] = id
		counts[storage.CategoriesEntity]++

		for _, sub := range categories[name] {
			_, createErr = repos.SubCategories().Create(ctx, storage.SubCategory{
				CategoryID: id,
				Name:       sub,
				Status:     storage.StatusActive,
			})
			if createErr != nil {
				return counts, fmt.Errorf("failed to create sub category %s: %w", sub, createErr)
			}
			counts[storage.SubCategoriesEntity]++
		}
	}

	paymentModes := []storage.PaymentMode{
		{Name: "Cash", Type: "cash", Status: storage.StatusActive},
		{Name: "Card", Type: "card", Status: storage.StatusActive},
		{Name: "Online", Type: "online", Status: storage.StatusActive},
		{Name: "Gift voucher", Type: "voucher", Status: storage.StatusInactive},
	}
	for _, mode := range paymentModes {
		if _, err = repos.PaymentModes().Create(ctx, mode); err != nil {
			return counts, fmt.Errorf("failed to create payment mode %s: %w", mode.Name, err)
		}
		counts[storage.PaymentModesEntity]++
	}

	units := []storage.MeasurementUnit{
		{Name: "Millilitre", ShortName: "ml"},
		{Name: "Gram", ShortName: "g"},
		{Name: "Piece", ShortName: "pc"},
	}
	unitIDs := make([]int64, 0, len(units))
	for _, unit := range units {
		id, createErr := repos.MeasurementUnits().Create(ctx, unit)
		if createErr != nil {
			return counts, fmt.Errorf("failed to create measurement unit %s: %w", unit.Name, createErr)
		}
		unitIDs = append(unitIDs, id)
		counts[storage.MeasurementUnitsEntity]++
	}

	statuses := []string{
		storage.GiftCardActive,
		storage.GiftCardActive,
		storage.GiftCardRedeemed,
		storage.GiftCardExpired,
		storage.GiftCardBlocked,
	}
	for i := 0; i < giftCards; i++ {
		amount := int64(2500 * (i%8 + 1))
		issued := now.AddDate(0, 0, -i*3)
		expires := issued.AddDate(1, 0, 0)
		status := statuses[i%len(statuses)]

		balance := amount - int64(i%4)*amount/4
		if status == storage.GiftCardRedeemed {
			balance = 0
		}

		_, err = repos.GiftCards().Create(ctx, storage.GiftCard{
			Code:       fmt.Sprintf("GIFT%04d", i+1),
			CustomerID: int64(i%7 + 1),
			OutletID:   int64(i%outlets + 1),
			Amount:     amount,
			Balance:    balance,
			IssuedOn:   issued,
			ExpiresOn:  &expires,
			Status:     status,
		})
		if err != nil {
			return counts, fmt.Errorf("failed to create gift card %d: %w", i+1, err)
		}
		counts[storage.GiftCardsEntity]++
	}

	items := []struct {
		name     string
		category string
		unit     int
		quantity int64
		reorder  int64
	}{
		{"Lavender oil", "Massage", 0, 4, 10},
		{"Eucalyptus oil", "Massage", 0, 25, 10},
		{"Basalt stones", "Massage", 2, 30, 12},
		{"Clay mask", "Facial", 1, 8, 5},
		{"Hyaluronic serum", "Facial", 0, 2, 6},
		{"Nail polish", "Nails", 2, 60, 20},
		{"Cuticle oil", "Nails", 0, 15, 5},
		{"Gift box", "Retail", 2, 0, 3},
	}
	for outlet := int64(1); outlet <= outlets; outlet++ {
		for i, item := range items {
			_, err = repos.Inventory().Create(ctx, storage.InventoryItem{
				Name:              item.name,
				SKU:               fmt.Sprintf("SKU-%03d", i+1),
				OutletID:          outlet,
				CategoryID:        categoryIDs[item.category],
				MeasurementUnitID: unitIDs[item.unit],
				Quantity:          item.quantity + outlet - 1,
				ReorderLevel:      item.reorder,
			})
			if err != nil {
				return counts, fmt.Errorf("failed to create inventory item %s: %w", item.name, err)
			}
			counts[storage.InventoryEntity]++
		}
	}

	return counts, nil
}
