package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// Service exposes inventory tracking operations.
type Service interface {
	Create(ctx context.Context, input Input) (*InventoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*InventoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*InventoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page pagination.Params) ([]InventoryDTO, error)
	LowStock(ctx context.Context, page pagination.Params) ([]InventoryDTO, error)
	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

// Input holds a complete inventory payload.
type Input struct {
	ProductID     uuid.UUID
	CurrentStock  int
	ReservedStock int
}

// UpdateInput holds optional inventory fields.
type UpdateInput struct {
	ProductID     *uuid.UUID
	CurrentStock  *int
	ReservedStock *int
}

type productChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo     *Repository
	products productChecker
}

// NewService constructs the inventory service.
func NewService(repo *Repository, products productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*InventoryDTO, error) {
	row := &models.Inventory{
		ProductID:     input.ProductID,
		CurrentStock:  input.CurrentStock,
		ReservedStock: input.ReservedStock,
	}
	if err := s.validate(ctx, row); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, mapWriteError(err, "db: insert inventory")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*InventoryDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*InventoryDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.ProductID != nil {
		row.ProductID = *input.ProductID
		row.Product = nil
	}
	if input.CurrentStock != nil {
		row.CurrentStock = *input.CurrentStock
	}
	if input.ReservedStock != nil {
		row.ReservedStock = *input.ReservedStock
	}
	if err := s.validate(ctx, row); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, mapWriteError(err, "db: update inventory")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete inventory")
	}
	if !deleted {
		return pkgerrors.NotFound("inventory")
	}
	return nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]InventoryDTO, error) {
	rows, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list inventory")
	}
	return toDTOs(rows), nil
}

func (s *service) LowStock(ctx context.Context, page pagination.Params) ([]InventoryDTO, error) {
	rows, err := s.repo.LowStock(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list low stock inventory")
	}
	return toDTOs(rows), nil
}

// Dashboard counts tracked and low-stock products and values the stock on hand
// at each product's unit price.
func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	rows, err := s.repo.List(ctx, pagination.Params{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load inventory")
	}
	low, err := s.repo.Count(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: count low stock inventory")
	}

	dto := dashboardFrom(int64(len(rows)), low, StockValue(rows))
	return &dto, nil
}

// StockValue sums current stock × unit price over rows with a loaded product.
func StockValue(rows []models.Inventory) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		total = total.Add(row.Product.UnitPrice.Mul(decimal.NewFromInt(int64(row.CurrentStock))))
	}
	return total
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NotFound("inventory")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load inventory")
	}
	return row, nil
}

func (s *service) validate(ctx context.Context, row *models.Inventory) error {
	if row.CurrentStock < 0 {
		return pkgerrors.FieldError("current_stock", "must be at least 0")
	}
	if row.ReservedStock < 0 {
		return pkgerrors.FieldError("reserved_stock", "must be at least 0")
	}
	ok, err := s.products.Exists(ctx, row.ProductID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check product")
	}
	if !ok {
		return pkgerrors.FieldError("product", fmt.Sprintf("invalid pk %q - object does not exist", row.ProductID))
	}
	taken, err := s.repo.ProductTaken(ctx, row.ProductID, row.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check inventory product")
	}
	if taken {
		return duplicateProduct()
	}
	return nil
}

func duplicateProduct() error {
	return pkgerrors.FieldError("product", "inventory with this product already exists")
}

func mapWriteError(err error, msg string) error {
	switch {
	case db.IsUniqueViolation(err, "product_id"):
		return duplicateProduct()
	case db.IsForeignKeyViolation(err):
		return pkgerrors.New(pkgerrors.CodeValidation, "referenced product does not exist")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
}

func toDTOs(rows []models.Inventory) []InventoryDTO {
	out := make([]InventoryDTO, len(rows))
	for i := range rows {
		out[i] = FromModel(&rows[i])
	}
	return out
}
