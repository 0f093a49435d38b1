package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, input Input) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page pagination.Params) ([]ProductDTO, error)
	LowStock(ctx context.Context, page pagination.Params) ([]ProductDTO, error)
}

// Input holds a complete product payload.
type Input struct {
	Name          string
	CategoryID    uuid.UUID
	SupplierID    uuid.UUID
	SKU           string
	Description   string
	UnitPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
}

// UpdateInput holds optional product fields.
type UpdateInput struct {
	Name          *string
	CategoryID    *uuid.UUID
	SupplierID    *uuid.UUID
	SKU           *string
	Description   *string
	UnitPrice     *decimal.Decimal
	StockQuantity *int
	MinStockLevel *int
}

type existenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo       *Repository
	suppliers  existenceChecker
	categories existenceChecker
}

// NewService constructs the product service.
func NewService(repo *Repository, suppliers, categories existenceChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier lookup required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category lookup required")
	}
	return &service{repo: repo, suppliers: suppliers, categories: categories}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*ProductDTO, error) {
	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		CategoryID:    input.CategoryID,
		SupplierID:    input.SupplierID,
		SKU:           strings.TrimSpace(input.SKU),
		Description:   strings.TrimSpace(input.Description),
		UnitPrice:     input.UnitPrice,
		StockQuantity: input.StockQuantity,
		MinStockLevel: input.MinStockLevel,
	}
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, mapWriteError(err, "db: insert product")
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(product, input)
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, mapWriteError(err, "db: update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.NotFound("product")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter Filter, page pagination.Params) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list products")
	}
	out := make([]ProductDTO, len(rows))
	for i := range rows {
		out[i] = FromModel(&rows[i])
	}
	return out, nil
}

// LowStock lists products at or below their minimum stock level.
func (s *service) LowStock(ctx context.Context, page pagination.Params) ([]ProductDTO, error) {
	return s.List(ctx, Filter{LowStock: true}, page)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NotFound("product")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load product")
	}
	return product, nil
}

func (s *service) validate(ctx context.Context, product *models.Product) error {
	if product.Name == "" {
		return pkgerrors.FieldError("name", "this field may not be blank")
	}
	if product.SKU == "" {
		return pkgerrors.FieldError("sku", "this field may not be blank")
	}
	if err := money.CheckPrecision(product.UnitPrice, money.PriceDigits); err != nil {
		return pkgerrors.FieldError("unit_price", err.Error())
	}
	if product.StockQuantity < 0 {
		return pkgerrors.FieldError("stock_quantity", "must be at least 0")
	}
	if product.MinStockLevel < 0 {
		return pkgerrors.FieldError("min_stock_level", "must be at least 0")
	}
	if err := ensureExists(ctx, s.suppliers, "supplier", product.SupplierID); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.categories, "category", product.CategoryID); err != nil {
		return err
	}
	taken, err := s.repo.SKUTaken(ctx, product.SKU, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check sku")
	}
	if taken {
		return duplicateSKU()
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
		product.Category = nil
	}
	if input.SupplierID != nil {
		product.SupplierID = *input.SupplierID
		product.Supplier = nil
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.MinStockLevel != nil {
		product.MinStockLevel = *input.MinStockLevel
	}
}

// ensureExists reports a field error when a referenced row is missing.
func ensureExists(ctx context.Context, checker existenceChecker, field string, id uuid.UUID) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check "+field)
	}
	if !ok {
		return pkgerrors.FieldError(field, fmt.Sprintf("invalid pk %q - object does not exist", id))
	}
	return nil
}

func duplicateSKU() error {
	return pkgerrors.FieldError("sku", "product with this sku already exists")
}

func mapWriteError(err error, msg string) error {
	switch {
	case db.IsUniqueViolation(err, "sku"):
		return duplicateSKU()
	case db.IsForeignKeyViolation(err):
		return pkgerrors.New(pkgerrors.CodeValidation, "referenced supplier or category does not exist")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
}
