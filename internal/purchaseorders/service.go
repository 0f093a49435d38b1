package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	"github.com/angelmondragon/supplychain-backend/pkg/db"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/metrics"
	"github.com/angelmondragon/supplychain-backend/pkg/money"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type existenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes purchase order management, lifecycle actions and reporting.
type Service interface {
	Create(ctx context.Context, input Input) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, page pagination.Params) ([]OrderDTO, error)

	Approve(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Ship(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Receive(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error)

	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

// Input holds a complete purchase order payload. CreatedByID is always the
// authenticated caller.
type Input struct {
	OrderNumber          string
	SupplierID           uuid.UUID
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	Status               enums.PurchaseOrderStatus
	TotalAmount          decimal.Decimal
	Notes                string
	CreatedByID          uuid.UUID
}

// UpdateInput holds optional purchase order fields. The creator never changes.
type UpdateInput struct {
	OrderNumber          *string
	SupplierID           *uuid.UUID
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	Status               *enums.PurchaseOrderStatus
	TotalAmount          *decimal.Decimal
	Notes                *string
}

// Options tune lifecycle enforcement and instrumentation.
type Options struct {
	StrictTransitions bool
	Metrics           *metrics.OrderMetrics
	Logger            *logger.Logger
	Now               func() time.Time
}

type service struct {
	repo      *Repository
	tx        txRunner
	suppliers existenceChecker
	products  *products.Repository
	inventory *inventory.Repository
	strict    bool
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the purchase order service.
func NewService(repo *Repository, tx txRunner, suppliers existenceChecker, productRepo *products.Repository, inventoryRepo *inventory.Repository, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier lookup required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		tx:        tx,
		suppliers: suppliers,
		products:  productRepo,
		inventory: inventoryRepo,
		strict:    opts.StrictTransitions,
		metrics:   opts.Metrics,
		logg:      opts.Logger,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*OrderDTO, error) {
	if input.CreatedByID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order := &models.PurchaseOrder{
		OrderNumber:          strings.TrimSpace(input.OrderNumber),
		SupplierID:           input.SupplierID,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Status:               input.Status,
		TotalAmount:          input.TotalAmount,
		Notes:                strings.TrimSpace(input.Notes),
		CreatedByID:          input.CreatedByID,
	}
	if order.Status == "" {
		order.Status = enums.PurchaseOrderStatusPending
	}
	if err := s.validate(ctx, order); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, mapWriteError(err, "db: insert purchase order")
	}
	s.metrics.ObserveTransition(order.Status.String())
	return s.Get(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	previous := order.Status
	if input.Status != nil && *input.Status != previous {
		if err := s.guardTransition(previous, *input.Status); err != nil {
			return nil, err
		}
	}
	applyUpdate(order, input)
	if err := s.validate(ctx, order); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, mapWriteError(err, "db: update purchase order")
	}
	if order.Status != previous {
		s.metrics.ObserveTransition(order.Status.String())
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete purchase order")
	}
	if !deleted {
		return pkgerrors.NotFound("purchase order")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter Filter, page pagination.Params) ([]OrderDTO, error) {
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list purchase orders")
	}
	out := make([]OrderDTO, len(rows))
	for i := range rows {
		out[i] = FromModel(&rows[i])
	}
	return out, nil
}

// Dashboard reports order counts by status, orders dated in the current UTC
// month and the summed order amount.
func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: count purchase orders")
	}
	from, to := monthBounds(s.now())
	monthly, err := s.repo.CountOrderedBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: count monthly purchase orders")
	}
	total, err := s.repo.SumTotalAmount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: sum purchase orders")
	}

	var all int64
	for _, n := range counts {
		all += n
	}
	return &DashboardDTO{
		TotalOrders:    all,
		PendingOrders:  counts[enums.PurchaseOrderStatusPending],
		ApprovedOrders: counts[enums.PurchaseOrderStatusApproved],
		ShippedOrders:  counts[enums.PurchaseOrderStatusShipped],
		MonthlyOrders:  monthly,
		TotalAmount:    money.Format(total.Round(money.Places)),
	}, nil
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *service) validate(ctx context.Context, order *models.PurchaseOrder) error {
	if order.OrderNumber == "" {
		return pkgerrors.FieldError("order_number", "this field may not be blank")
	}
	if !order.Status.IsValid() {
		return pkgerrors.FieldError("status", fmt.Sprintf("%q is not a valid choice", order.Status))
	}
	if err := money.CheckPrecision(order.TotalAmount, money.AmountDigits); err != nil {
		return pkgerrors.FieldError("total_amount", err.Error())
	}
	if err := ensureExists(ctx, s.suppliers, "supplier", order.SupplierID); err != nil {
		return err
	}
	taken, err := s.repo.OrderNumberTaken(ctx, order.OrderNumber, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check order number")
	}
	if taken {
		return duplicateOrderNumber()
	}
	return nil
}

func applyUpdate(order *models.PurchaseOrder, input UpdateInput) {
	if input.OrderNumber != nil {
		order.OrderNumber = strings.TrimSpace(*input.OrderNumber)
	}
	if input.SupplierID != nil {
		order.SupplierID = *input.SupplierID
		order.Supplier = nil
	}
	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}
	if input.ExpectedDeliveryDate != nil {
		order.ExpectedDeliveryDate = *input.ExpectedDeliveryDate
	}
	if input.Status != nil {
		order.Status = *input.Status
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	if input.Notes != nil {
		order.Notes = strings.TrimSpace(*input.Notes)
	}
}

func duplicateOrderNumber() error {
	return pkgerrors.FieldError("order_number", "purchase order with this order number already exists")
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound("purchase order")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load purchase order")
}

func mapWriteError(err error, msg string) error {
	switch {
	case db.IsUniqueViolation(err, "order_number"):
		return duplicateOrderNumber()
	case db.IsForeignKeyViolation(err):
		return pkgerrors.New(pkgerrors.CodeValidation, "referenced supplier or user does not exist")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
}
