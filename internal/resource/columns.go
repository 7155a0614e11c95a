package resource

import (
	"strconv"
	"time"

	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/table"
	"github.com/GustavoCaso/spadesk/internal/util"
)

const dateTimeLayout = "2006-01-02 15:04"

func idColumn[T any](id func(T) int64) table.Column[T] {
	return table.Column[T]{
		FieldName:  "id",
		HeaderName: "ID",
		Render:     func(record T) string { return strconv.FormatInt(id(record), 10) },
		Sortable:   true,
	}
}

func createdAtColumn[T any](loc *time.Location, createdAt func(T) time.Time) table.Column[T] {
	return table.Column[T]{
		FieldName:  "createdAt",
		HeaderName: "Created",
		Render:     func(record T) string { return util.FormatZonedDate(createdAt(record), loc, dateTimeLayout) },
		Sortable:   true,
	}
}

func reference(id int64) string {
	if id == 0 {
		return "-"
	}
	return "#" + strconv.FormatInt(id, 10)
}

func categoryColumns(loc *time.Location) []table.Column[storage.Category] {
	return []table.Column[storage.Category]{
		idColumn(func(c storage.Category) int64 { return c.ID }),
		{FieldName: "name", HeaderName: "Name", Render: func(c storage.Category) string { return c.Name }, Sortable: true},
		{FieldName: "description", HeaderName: "Description", Render: func(c storage.Category) string { return c.Description }},
		{FieldName: "status", HeaderName: "Status", Render: func(c storage.Category) string { return c.Status }, Sortable: true},
		createdAtColumn(loc, func(c storage.Category) time.Time { return c.CreatedAt }),
	}
}

func subCategoryColumns(loc *time.Location) []table.Column[storage.SubCategory] {
	return []table.Column[storage.SubCategory]{
		idColumn(func(s storage.SubCategory) int64 { return s.ID }),
		{FieldName: "name", HeaderName: "Name", Render: func(s storage.SubCategory) string { return s.Name }, Sortable: true},
		{FieldName: "categoryId", HeaderName: "Category", Render: func(s storage.SubCategory) string { return reference(s.CategoryID) }, Sortable: true},
		{FieldName: "status", HeaderName: "Status", Render: func(s storage.SubCategory) string { return s.Status }},
		createdAtColumn(loc, func(s storage.SubCategory) time.Time { return s.CreatedAt }),
	}
}

func paymentModeColumns(loc *time.Location) []table.Column[storage.PaymentMode] {
	return []table.Column[storage.PaymentMode]{
		idColumn(func(p storage.PaymentMode) int64 { return p.ID }),
		{FieldName: "name", HeaderName: "Name", Render: func(p storage.PaymentMode) string { return p.Name }, Sortable: true},
		{FieldName: "type", HeaderName: "Type", Render: func(p storage.PaymentMode) string { return p.Type }, Sortable: true},
		{FieldName: "status", HeaderName: "Status", Render: func(p storage.PaymentMode) string { return p.Status }},
		createdAtColumn(loc, func(p storage.PaymentMode) time.Time { return p.CreatedAt }),
	}
}

func measurementUnitColumns(loc *time.Location) []table.Column[storage.MeasurementUnit] {
	return []table.Column[storage.MeasurementUnit]{
		idColumn(func(m storage.MeasurementUnit) int64 { return m.ID }),
		{FieldName: "name", HeaderName: "Name", Render: func(m storage.MeasurementUnit) string { return m.Name }, Sortable: true},
		{FieldName: "shortName", HeaderName: "Short name", Render: func(m storage.MeasurementUnit) string { return m.ShortName }, Sortable: true},
		createdAtColumn(loc, func(m storage.MeasurementUnit) time.Time { return m.CreatedAt }),
	}
}

func giftCardColumns(loc *time.Location) []table.Column[storage.GiftCard] {
	return []table.Column[storage.GiftCard]{
		idColumn(func(g storage.GiftCard) int64 { return g.ID }),
		{FieldName: "code", HeaderName: "Code", Render: func(g storage.GiftCard) string { return g.Code }, Sortable: true},
		{FieldName: "outletId", HeaderName: "Outlet", Render: func(g storage.GiftCard) string { return reference(g.OutletID) }},
		{FieldName: "customerId", HeaderName: "Customer", Render: func(g storage.GiftCard) string { return reference(g.CustomerID) }},
		{FieldName: "amount", HeaderName: "Amount", Render: func(g storage.GiftCard) string { return util.FormatAmount(g.Amount) }, Sortable: true},
		{FieldName: "balance", HeaderName: "Balance", Render: func(g storage.GiftCard) string { return util.FormatAmount(g.Balance) }, Sortable: true},
		{FieldName: "issuedOn", HeaderName: "Issued", Render: func(g storage.GiftCard) string { return util.FormatZonedDate(g.IssuedOn, loc, "") }, Sortable: true},
		{FieldName: "expiresOn", HeaderName: "Expires", Render: func(g storage.GiftCard) string {
			if g.ExpiresOn == nil {
				return "-"
			}
			return util.FormatZonedDate(*g.ExpiresOn, loc, "")
		}, Sortable: true},
		{FieldName: "status", HeaderName: "Status", Render: func(g storage.GiftCard) string { return g.Status }},
	}
}

func inventoryColumns(loc *time.Location) []table.Column[storage.InventoryItem] {
	return []table.Column[storage.InventoryItem]{
		idColumn(func(i storage.InventoryItem) int64 { return i.ID }),
		{FieldName: "name", HeaderName: "Name", Render: func(i storage.InventoryItem) string { return i.Name }, Sortable: true},
		{FieldName: "sku", HeaderName: "SKU", Render: func(i storage.InventoryItem) string { return i.SKU }, Sortable: true},
		{FieldName: "outletId", HeaderName: "Outlet", Render: func(i storage.InventoryItem) string { return reference(i.OutletID) }},
		{FieldName: "quantity", HeaderName: "Quantity", Render: func(i storage.InventoryItem) string {
			quantity := strconv.FormatInt(i.Quantity, 10)
			if i.LowStock() {
				return quantity + " (low)"
			}
			return quantity
		}, Sortable: true},
		{FieldName: "reorderLevel", HeaderName: "Reorder at", Render: func(i storage.InventoryItem) string { return strconv.FormatInt(i.ReorderLevel, 10) }},
		createdAtColumn(loc, func(i storage.InventoryItem) time.Time { return i.CreatedAt }),
	}
}
