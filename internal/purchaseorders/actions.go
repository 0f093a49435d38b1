package purchaseorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
)

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, id, enums.PurchaseOrderStatusApproved)
}

func (s *service) Ship(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, id, enums.PurchaseOrderStatusShipped)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, id, enums.PurchaseOrderStatusCancelled)
}

// Receive marks the order received and books every line item into stock in a
// single transaction: product quantities are incremented in place and each
// product's inventory row is created if missing and synced to the new quantity.
func (s *service) Receive(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	units := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.repo.WithTx(tx)
		order, err := orders.FindForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if err := s.guardTransition(order.Status, enums.PurchaseOrderStatusReceived); err != nil {
			return err
		}
		if err := orders.UpdateStatus(ctx, id, enums.PurchaseOrderStatusReceived); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update purchase order status")
		}

		productRepo := s.products.WithTx(tx)
		stock := s.inventory.WithTx(tx)
		for _, item := range order.Items {
			if err := productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return stockError(err, item.ProductID, "increment stock")
			}
			quantity, err := productRepo.StockQuantity(ctx, item.ProductID)
			if err != nil {
				return stockError(err, item.ProductID, "read stock")
			}
			row, err := stock.GetOrCreate(ctx, item.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load inventory")
			}
			row.CurrentStock = quantity
			if err := stock.Save(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: sync inventory")
			}
			units += item.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(enums.PurchaseOrderStatusReceived.String())
	s.metrics.ObserveReceived(units)
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, id.String())
		s.logg.Info(s.logg.WithField(logCtx, "units", units), "purchase order received")
	}
	return s.Get(ctx, id)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, next enums.PurchaseOrderStatus) (*OrderDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.repo.WithTx(tx)
		order, err := orders.FindForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if err := s.guardTransition(order.Status, next); err != nil {
			return err
		}
		if err := orders.UpdateStatus(ctx, id, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update purchase order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveTransition(next.String())
	return s.Get(ctx, id)
}

// guardTransition enforces the order lifecycle when strict transitions are on;
// otherwise any status may be overwritten with any other.
func (s *service) guardTransition(current, next enums.PurchaseOrderStatus) error {
	if !s.strict || current.CanTransition(next) {
		return nil
	}
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move purchase order from %s to %s", current, next),
	).WithDetails(map[string]string{"status": string(current), "requested": string(next)})
}

func stockError(err error, productID uuid.UUID, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(fmt.Sprintf("product %s", productID))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: "+action)
}
