// Package resource describes every listing screen: which filters it tracks in the URL,
// what it searches, how it renders as a table and where its records come from.
package resource

import (
	"context"
	"strconv"
	"time"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/table"
)

// Listing is one rendered page of a resource.
type Listing struct {
	Grid       table.Grid
	TotalCount int
	TotalPages int
}

// Resource is an entity listing with its record type erased.
type Resource interface {
	Name() string
	Title() string
	// Tracked are the filter names kept in the URL.
	Tracked() []string
	SearchIn() []string
	// DateField names the field the date range applies to.
	DateField() string
	List(ctx context.Context, req listquery.Request) (Listing, error)
	Delete(ctx context.Context, id int64) error
}

type definition[T any] struct {
	name      string
	title     string
	tracked   []string
	searchIn  []string
	dateField string
	columns   []table.Column[T]
	id        func(T) int64
	repo      storage.Repository[T]
}

func (d *definition[T]) Name() string       { return d.name }
func (d *definition[T]) Title() string      { return d.title }
func (d *definition[T]) Tracked() []string  { return d.tracked }
func (d *definition[T]) SearchIn() []string { return d.searchIn }
func (d *definition[T]) DateField() string  { return d.dateField }

func (d *definition[T]) List(ctx context.Context, req listquery.Request) (Listing, error) {
	if len(req.SearchIn) == 0 {
		req.SearchIn = d.searchIn
	}

	page, err := d.repo.Paginate(ctx, req)
	if err != nil {
		return Listing{}, err
	}

	key := func(record T) string {
		return strconv.FormatInt(d.id(record), 10)
	}

	return Listing{
		Grid:       table.Build(d.columns, page.Data, key).WithSort(req.Sort),
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}, nil
}

func (d *definition[T]) Delete(ctx context.Context, id int64) error {
	return d.repo.Delete(ctx, id)
}

// All returns a resource per entity, in navigation order. Dates are rendered in loc.
func All(repos storage.Repositories, loc *time.Location) []Resource {
	return []Resource{
		Categories(repos, loc),
		SubCategories(repos, loc),
		PaymentModes(repos, loc),
		MeasurementUnits(repos, loc),
		GiftCards(repos, loc),
		Inventory(repos, loc),
	}
}

// Lookup finds the resource called name.
func Lookup(resources []Resource, name string) (Resource, bool) {
	for _, r := range resources {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Names lists the entity names in navigation order.
func Names() []string {
	return []string{
		storage.CategoriesEntity,
		storage.SubCategoriesEntity,
		storage.PaymentModesEntity,
		storage.MeasurementUnitsEntity,
		storage.GiftCardsEntity,
		storage.InventoryEntity,
	}
}

func Categories(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.Category]{
		name:      storage.CategoriesEntity,
		title:     "Categories",
		tracked:   []string{"status"},
		searchIn:  []string{"name", "description"},
		dateField: "createdAt",
		columns:   categoryColumns(loc),
		id:        func(c storage.Category) int64 { return c.ID },
		repo:      repos.Categories(),
	}
}

func SubCategories(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.SubCategory]{
		name:      storage.SubCategoriesEntity,
		title:     "Sub categories",
		tracked:   []string{"categoryId", "status"},
		searchIn:  []string{"name"},
		dateField: "createdAt",
		columns:   subCategoryColumns(loc),
		id:        func(s storage.SubCategory) int64 { return s.ID },
		repo:      repos.SubCategories(),
	}
}

func PaymentModes(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.PaymentMode]{
		name:      storage.PaymentModesEntity,
		title:     "Payment modes",
		tracked:   []string{"type", "status"},
		searchIn:  []string{"name"},
		dateField: "createdAt",
		columns:   paymentModeColumns(loc),
		id:        func(p storage.PaymentMode) int64 { return p.ID },
		repo:      repos.PaymentModes(),
	}
}

func MeasurementUnits(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.MeasurementUnit]{
		name:      storage.MeasurementUnitsEntity,
		title:     "Measurement units",
		searchIn:  []string{"name", "shortName"},
		dateField: "createdAt",
		columns:   measurementUnitColumns(loc),
		id:        func(m storage.MeasurementUnit) int64 { return m.ID },
		repo:      repos.MeasurementUnits(),
	}
}

func GiftCards(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.GiftCard]{
		name:      storage.GiftCardsEntity,
		title:     "Gift cards",
		tracked:   []string{"outletId", "customerId", "status"},
		searchIn:  []string{"code"},
		dateField: "issuedOn",
		columns:   giftCardColumns(loc),
		id:        func(g storage.GiftCard) int64 { return g.ID },
		repo:      repos.GiftCards(),
	}
}

func Inventory(repos storage.Repositories, loc *time.Location) Resource {
	return &definition[storage.InventoryItem]{
		name:      storage.InventoryEntity,
		title:     "Inventory",
		tracked:   []string{"outletId", "categoryId", "measurementUnitId"},
		searchIn:  []string{"name", "sku"},
		dateField: "createdAt",
		columns:   inventoryColumns(loc),
		id:        func(i storage.InventoryItem) int64 { return i.ID },
		repo:      repos.Inventory(),
	}
}
