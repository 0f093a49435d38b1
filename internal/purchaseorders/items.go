package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

// maxItemQuantity is the largest quantity the INTEGER column holds.
const maxItemQuantity = math.MaxInt32

// ItemService manages purchase order line items.
type ItemService interface {
	Create(ctx context.Context, input ItemInput) (*ItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ItemUpdateInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ItemFilter, page pagination.Params) ([]ItemDTO, error)
}

// ItemInput holds a complete line item payload. The line total is always
// derived from quantity and unit price.
type ItemInput struct {
	PurchaseOrderID uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       decimal.Decimal
}

// ItemUpdateInput holds optional line item fields.
type ItemUpdateInput struct {
	PurchaseOrderID *uuid.UUID
	ProductID       *uuid.UUID
	Quantity        *int
	UnitPrice       *decimal.Decimal
}

type itemService struct {
	repo     *ItemRepository
	orders   existenceChecker
	products existenceChecker
}

// NewItemService constructs the line item service.
func NewItemService(repo *ItemRepository, orders, products existenceChecker) (ItemService, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("purchase order lookup required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &itemService{repo: repo, orders: orders, products: products}, nil
}

func (s *itemService) Create(ctx context.Context, input ItemInput) (*ItemDTO, error) {
	item := &models.PurchaseOrderItem{
		PurchaseOrderID: input.PurchaseOrderID,
		ProductID:       input.ProductID,
		Quantity:        input.Quantity,
		UnitPrice:       input.UnitPrice,
	}
	if err := s.validate(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, mapItemWriteError(err, "db: insert purchase order item")
	}
	return s.Get(ctx, item.ID)
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ItemFromModel(item)
	return &dto, nil
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, input ItemUpdateInput) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.PurchaseOrderID != nil {
		item.PurchaseOrderID = *input.PurchaseOrderID
	}
	if input.ProductID != nil {
		item.ProductID = *input.ProductID
		item.Product = nil
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if err := s.validate(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, mapItemWriteError(err, "db: update purchase order item")
	}
	return s.Get(ctx, id)
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete purchase order item")
	}
	if !deleted {
		return pkgerrors.NotFound("purchase order item")
	}
	return nil
}

func (s *itemService) List(ctx context.Context, filter ItemFilter, page pagination.Params) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list purchase order items")
	}
	out := make([]ItemDTO, len(rows))
	for i := range rows {
		out[i] = ItemFromModel(&rows[i])
	}
	return out, nil
}

func (s *itemService) load(ctx context.Context, id uuid.UUID) (*models.PurchaseOrderItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NotFound("purchase order item")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load purchase order item")
	}
	return item, nil
}

func (s *itemService) validate(ctx context.Context, item *models.PurchaseOrderItem) error {
	if item.Quantity < 1 {
		return pkgerrors.FieldError("quantity", "must be at least 1")
	}
	if item.Quantity > maxItemQuantity {
		return pkgerrors.FieldError("quantity", fmt.Sprintf("must be at most %d", maxItemQuantity))
	}
	if err := money.CheckPrecision(item.UnitPrice, money.PriceDigits); err != nil {
		return pkgerrors.FieldError("unit_price", err.Error())
	}
	if err := money.CheckPrecision(models.LineTotal(item.Quantity, item.UnitPrice), money.PriceDigits); err != nil {
		return pkgerrors.FieldError("total_price", err.Error())
	}
	if err := ensureExists(ctx, s.orders, "purchase_order", item.PurchaseOrderID); err != nil {
		return err
	}
	return ensureExists(ctx, s.products, "product", item.ProductID)
}

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

func mapItemWriteError(err error, msg string) error {
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.New(pkgerrors.CodeValidation, "referenced purchase order or product does not exist")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
