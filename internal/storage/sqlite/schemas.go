package sqlite

import (
	"database/sql"

	"github.com/GustavoCaso/spadesk/internal/storage"
)

var categorySchema = schema[storage.Category]{
	table: "categories",
	columns: []field{
		{name: "name", column: "name"},
		{name: "description", column: "description"},
		{name: "status", column: "status"},
	},
	createdAt:  true,
	dateField:  "createdAt",
	searchable: []string{"name", "description"},
	filterable: []string{"status"},
	sortable:   []string{"id", "name", "status", "createdAt"},
	scan: func(scan scanFunc) (storage.Category, error) {
		var c storage.Category
		var createdAt int64
		err := scan(&c.ID, &c.Name, &c.Description, &c.Status, &createdAt)
		c.CreatedAt = unixTime(createdAt)
		return c, err
	},
	values: func(c storage.Category) []any {
		return []any{c.Name, c.Description, c.Status}
	},
}

var subCategorySchema = schema[storage.SubCategory]{
	table: "sub_categories",
	columns: []field{
		{name: "categoryId", column: "category_id", integer: true},
		{name: "name", column: "name"},
		{name: "status", column: "status"},
	},
	createdAt:  true,
	dateField:  "createdAt",
	searchable: []string{"name"},
	filterable: []string{"categoryId", "status"},
	sortable:   []string{"id", "name", "categoryId", "createdAt"},
	foreignKey: "categoryId",
	scan: func(scan scanFunc) (storage.SubCategory, error) {
		var s storage.SubCategory
		var createdAt int64
		err := scan(&s.ID, &s.CategoryID, &s.Name, &s.Status, &createdAt)
		s.CreatedAt = unixTime(createdAt)
		return s, err
	},
	values: func(s storage.SubCategory) []any {
		return []any{s.CategoryID, s.Name, s.Status}
	},
}

var paymentModeSchema = schema[storage.PaymentMode]{
	table: "payment_modes",
	columns: []field{
		{name: "name", column: "name"},
		{name: "type", column: "type"},
		{name: "status", column: "status"},
	},
	createdAt:  true,
	dateField:  "createdAt",
	searchable: []string{"name"},
	filterable: []string{"type", "status"},
	sortable:   []string{"id", "name", "type", "createdAt"},
	scan: func(scan scanFunc) (storage.PaymentMode, error) {
		var p storage.PaymentMode
		var createdAt int64
		err := scan(&p.ID, &p.Name, &p.Type, &p.Status, &createdAt)
		p.CreatedAt = unixTime(createdAt)
		return p, err
	},
	values: func(p storage.PaymentMode) []any {
		return []any{p.Name, p.Type, p.Status}
	},
}

var measurementUnitSchema = schema[storage.MeasurementUnit]{
	table: "measurement_units",
	columns: []field{
		{name: "name", column: "name"},
		{name: "shortName", column: "short_name"},
	},
	createdAt:  true,
	dateField:  "createdAt",
	searchable: []string{"name", "shortName"},
	sortable:   []string{"id", "name", "shortName", "createdAt"},
	scan: func(scan scanFunc) (storage.MeasurementUnit, error) {
		var m storage.MeasurementUnit
		var createdAt int64
		err := scan(&m.ID, &m.Name, &m.ShortName, &createdAt)
		m.CreatedAt = unixTime(createdAt)
		return m, err
	},
	values: func(m storage.MeasurementUnit) []any {
		return []any{m.Name, m.ShortName}
	},
}

var giftCardSchema = schema[storage.GiftCard]{
	table: "gift_cards",
	columns: []field{
		{name: "code", column: "code"},
		{name: "customerId", column: "customer_id", integer: true},
		{name: "outletId", column: "outlet_id", integer: true},
		{name: "amount", column: "amount", integer: true},
		{name: "balance", column: "balance", integer: true},
		{name: "issuedOn", column: "issued_on", integer: true},
		{name: "expiresOn", column: "expires_on", integer: true},
		{name: "status", column: "status"},
	},
	dateField:  "issuedOn",
	searchable: []string{"code"},
	filterable: []string{"outletId", "customerId", "status"},
	sortable:   []string{"id", "code", "amount", "balance", "issuedOn", "expiresOn"},
	scan: func(scan scanFunc) (storage.GiftCard, error) {
		var g storage.GiftCard
		var issuedOn int64
		var expiresOn sql.NullInt64
		err := scan(&g.ID, &g.Code, &g.CustomerID, &g.OutletID, &g.Amount, &g.Balance, &issuedOn, &expiresOn, &g.Status)
		g.IssuedOn = unixTime(issuedOn)
		if expiresOn.Valid {
			t := unixTime(expiresOn.Int64)
			g.ExpiresOn = &t
		}
		return g, err
	},
	values: func(g storage.GiftCard) []any {
		var expiresOn sql.NullInt64
		if g.ExpiresOn != nil {
			expiresOn = sql.NullInt64{Int64: g.ExpiresOn.Unix(), Valid: true}
		}
		return []any{g.Code, g.CustomerID, g.OutletID, g.Amount, g.Balance, g.IssuedOn.Unix(), expiresOn, g.Status}
	},
}

var inventorySchema = schema[storage.InventoryItem]{
	table: "inventory_items",
	columns: []field{
		{name: "name", column: "name"},
		{name: "sku", column: "sku"},
		{name: "outletId", column: "outlet_id", integer: true},
		{name: "categoryId", column: "category_id", integer: true},
		{name: "measurementUnitId", column: "measurement_unit_id", integer: true},
		{name: "quantity", column: "quantity", integer: true},
		{name: "reorderLevel", column: "reorder_level", integer: true},
	},
	createdAt:  true,
	dateField:  "createdAt",
	searchable: []string{"name", "sku"},
	filterable: []string{"outletId", "categoryId", "measurementUnitId"},
	sortable:   []string{"id", "name", "sku", "quantity", "createdAt"},
	scan: func(scan scanFunc) (storage.InventoryItem, error) {
		var i storage.InventoryItem
		var createdAt int64
		err := scan(&i.ID, &i.Name, &i.SKU, &i.OutletID, &i.CategoryID, &i.MeasurementUnitID,
			&i.Quantity, &i.ReorderLevel, &createdAt)
		i.CreatedAt = unixTime(createdAt)
		return i, err
	},
	values: func(i storage.InventoryItem) []any {
		return []any{i.Name, i.SKU, i.OutletID, i.CategoryID, i.MeasurementUnitID, i.Quantity, i.ReorderLevel}
	},
}
