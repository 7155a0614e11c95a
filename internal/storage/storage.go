package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/logger"
)

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

// ValidationError maps JSON field names to a description of what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, msg))
	}
	sort.Strings(parts)
	return "invalid record: " + strings.Join(parts, ", ")
}

// Entity names, used in URLs and on the command line.
const (
	CategoriesEntity       = "categories"
	SubCategoriesEntity    = "sub-categories"
	PaymentModesEntity     = "payment-modes"
	MeasurementUnitsEntity = "measurement-units"
	GiftCardsEntity        = "gift-cards"
	InventoryEntity        = "inventory"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=500"`
	Status      string    `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SubCategory struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"categoryId" validate:"required,gt=0"`
	Name       string    `json:"name" validate:"required,max=120"`
	Status     string    `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PaymentMode struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=60"`
	Type      string    `json:"type" validate:"required,oneof=cash card online voucher"`
	Status    string    `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt time.Time `json:"createdAt"`
}

type MeasurementUnit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=60"`
	ShortName string    `json:"shortName" validate:"required,max=16"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	GiftCardActive   = "active"
	GiftCardRedeemed = "redeemed"
	GiftCardExpired  = "expired"
	GiftCardBlocked  = "blocked"
)

// GiftCard amounts are in cents.
type GiftCard struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code" validate:"required,alphanum,min=4,max=32"`
	CustomerID int64      `json:"customerId" validate:"gte=0"`
	OutletID   int64      `json:"outletId" validate:"required,gt=0"`
	Amount     int64      `json:"amount" validate:"gt=0"`
	Balance    int64      `json:"balance" validate:"gte=0,ltefield=Amount"`
	IssuedOn   time.Time  `json:"issuedOn" validate:"required"`
	ExpiresOn  *time.Time `json:"expiresOn,omitempty" validate:"omitempty,gtfield=IssuedOn"`
	Status     string     `json:"status" validate:"required,oneof=active redeemed expired blocked"`
}

type InventoryItem struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name" validate:"required,max=120"`
	SKU               string    `json:"sku" validate:"required,max=64"`
	OutletID          int64     `json:"outletId" validate:"required,gt=0"`
	CategoryID        int64     `json:"categoryId" validate:"gte=0"`
	MeasurementUnitID int64     `json:"measurementUnitId" validate:"gte=0"`
	Quantity          int64     `json:"quantity" validate:"gte=0"`
	ReorderLevel      int64     `json:"reorderLevel" validate:"gte=0"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LowStock reports whether the item is at or below its reorder level.
func (i InventoryItem) LowStock() bool {
	return i.ReorderLevel > 0 && i.Quantity <= i.ReorderLevel
}

type User interface {
	ID() int64
	Username() string
	PasswordHash() string
	CreatedAt() time.Time
}

type user struct {
	id           int64
	username     string
	passwordHash string
	createdAt    time.Time
}

func NewUser(id int64, username, passwordHash string, createdAt time.Time) User {
	return &user{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

func (u *user) ID() int64 {
	return u.id
}

func (u *user) Username() string {
	return u.username
}

func (u *user) PasswordHash() string {
	return u.passwordHash
}

func (u *user) CreatedAt() time.Time {
	return u.createdAt
}

// Repository is the CRUD and listing surface shared by every entity.
type Repository[T any] interface {
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, record T) (int64, error)
	Update(ctx context.Context, id int64, record T) error
	Delete(ctx context.Context, id int64) error
	Paginate(ctx context.Context, req listquery.Request) (listquery.Page[T], error)
}

// Repositories gives access to every entity. It is implemented by the database and by
// the REST client.
type Repositories interface {
	Categories() Repository[Category]
	SubCategories() Repository[SubCategory]
	PaymentModes() Repository[PaymentMode]
	MeasurementUnits() Repository[MeasurementUnit]
	GiftCards() Repository[GiftCard]
	Inventory() Repository[InventoryItem]
}

type Storage interface {
	Repositories

	// Migrations
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	// Users
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)

	// Resource managment
	Close() error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks record against its validate tags. Failures are returned as *ValidationError.
func Validate(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate record: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = describe(fieldErr)
	}

	return &ValidationError{Fields: fields}
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param() + " characters"
	case "min":
		return "must be at least " + fieldErr.Param() + " characters"
	case "gt":
		return "must be greater than " + fieldErr.Param()
	case "gte":
		return "must be greater than or equal to " + fieldErr.Param()
	case "alphanum":
		return "must only contain letters and digits"
	case "ltefield":
		return "must not exceed " + lowerFirst(fieldErr.Param())
	case "gtfield":
		return "must be after " + lowerFirst(fieldErr.Param())
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
