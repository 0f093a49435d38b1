package purchaseorders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/internal/inventory"
	"github.com/angelmondragon/supplychain-backend/internal/products"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	"github.com/angelmondragon/supplychain-backend/pkg/db/dbtest"
	"github.com/angelmondragon/supplychain-backend/pkg/db/models"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplychain-backend/pkg/errors"
	"github.com/angelmondragon/supplychain-backend/pkg/metrics"
	"github.com/angelmondragon/supplychain-backend/pkg/pagination"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	conn     *gorm.DB
	svc      Service
	reg      *prometheus.Registry
	supplier *models.Supplier
	user     *models.User
	category *models.Category
}

func newFixture(t *testing.T, strict bool) fixture {
	t.Helper()
	client, conn := dbtest.OpenClient(t)
	reg := prometheus.NewRegistry()
	svc, err := NewService(
		NewRepository(conn),
		client,
		suppliers.NewRepository(conn),
		products.NewRepository(conn),
		inventory.NewRepository(conn),
		Options{
			StrictTransitions: strict,
			Metrics:           metrics.NewOrderMetrics(reg),
			Now:               func() time.Time { return fixedNow },
		},
	)
	require.NoError(t, err)
	return fixture{
		conn:     conn,
		svc:      svc,
		reg:      reg,
		supplier: dbtest.SeedSupplier(t, conn, "Acme"),
		user:     dbtest.SeedUser(t, conn, "buyer"),
		category: dbtest.SeedCategory(t, conn, "Parts"),
	}
}

func (f fixture) input(number string) Input {
	return Input{
		OrderNumber:          number,
		SupplierID:           f.supplier.ID,
		OrderDate:            time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		ExpectedDeliveryDate: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		TotalAmount:          decimal.RequireFromString("99.9"),
		CreatedByID:          f.user.ID,
	}
}

func (f fixture) order(t *testing.T, number string, status enums.PurchaseOrderStatus) *models.PurchaseOrder {
	return dbtest.SeedOrder(t, f.conn, f.supplier.ID, f.user.ID, number, status, "10.00", fixedNow)
}

func TestCreateOrderStampsCreatorAndDefaults(t *testing.T) {
	f := newFixture(t, false)

	created, err := f.svc.Create(context.Background(), f.input("PO-1"))
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusPending, created.Status)
	assert.Equal(t, "Pending", created.StatusDisplay)
	assert.Equal(t, "99.90", created.TotalAmount)
	assert.Equal(t, "2026-03-02", created.OrderDate)
	assert.Equal(t, "2026-03-09", created.ExpectedDeliveryDate)
	assert.Equal(t, "Acme", created.SupplierName)
	assert.Equal(t, "buyer", created.CreatedByName)
	assert.Equal(t, f.user.ID, created.CreatedBy)
	assert.Empty(t, created.Items)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("PO-1"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input("PO-1"))
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Details(), "order_number")

	in := f.input("PO-2")
	in.SupplierID = uuid.New()
	_, err = f.svc.Create(ctx, in)
	assert.Contains(t, pkgerrors.As(err).Details(), "supplier")

	in = f.input("PO-2")
	in.TotalAmount = decimal.RequireFromString("10000000000")
	_, err = f.svc.Create(ctx, in)
	assert.Contains(t, pkgerrors.As(err).Details(), "total_amount")

	in = f.input("PO-2")
	in.CreatedByID = uuid.Nil
	_, err = f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestDuplicateOrderNumberMappedFromConstraint(t *testing.T) {
	f := newFixture(t, false)
	f.order(t, "PO-1", enums.PurchaseOrderStatusPending)

	err := NewRepository(f.conn).Create(context.Background(), &models.PurchaseOrder{
		OrderNumber: "PO-1",
		SupplierID:  f.supplier.ID,
		CreatedByID: f.user.ID,
		OrderDate:   fixedNow,
	})
	assert.True(t, pkgerrors.IsCode(mapWriteError(err, "insert"), pkgerrors.CodeValidation))
}

func TestReceiveAddsStockAndSyncsInventory(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a := dbtest.SeedProduct(t, f.conn, f.supplier.ID, f.category.ID, dbtest.ProductSeed{Name: "A", StockQuantity: 10})
	b := dbtest.SeedProduct(t, f.conn, f.supplier.ID, f.category.ID, dbtest.ProductSeed{Name: "B"})
	require.NoError(t, f.conn.Create(&models.Inventory{ProductID: a.ID, CurrentStock: 10, ReservedStock: 2}).Error)

	order := f.order(t, "PO-1", enums.PurchaseOrderStatusShipped)
	dbtest.SeedItem(t, f.conn, order.ID, a.ID, 5, "1.00")
	dbtest.SeedItem(t, f.conn, order.ID, b.ID, 3, "2.00")

	received, err := f.svc.Receive(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusReceived, received.Status)
	assert.Len(t, received.Items, 2)

	productRepo := products.NewRepository(f.conn)
	qtyA, err := productRepo.StockQuantity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, qtyA)
	qtyB, err := productRepo.StockQuantity(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, qtyB)

	stock := inventory.NewRepository(f.conn)
	invA, err := stock.FindByProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, invA.CurrentStock)
	assert.Equal(t, 13, invA.AvailableStock)
	invB, err := stock.FindByProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, invB.CurrentStock)
	assert.Equal(t, 3, invB.AvailableStock)

	assert.Equal(t, float64(1), counterValue(t, f.reg, "orders_received_total", ""))
	assert.Equal(t, float64(8), counterValue(t, f.reg, "stock_units_received_total", ""))
	assert.Equal(t, float64(1), counterValue(t, f.reg, "order_status_transitions_total", "received"))
}

func TestReceiveRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a := dbtest.SeedProduct(t, f.conn, f.supplier.ID, f.category.ID, dbtest.ProductSeed{StockQuantity: 4})
	order := f.order(t, "PO-1", enums.PurchaseOrderStatusShipped)
	dbtest.SeedItem(t, f.conn, order.ID, a.ID, 5, "1.00")
	// abort the inventory sync after the stock increment already ran
	require.NoError(t, f.conn.Exec("CREATE TRIGGER fail_inventory BEFORE UPDATE ON inventory BEGIN SELECT RAISE(ABORT, 'boom'); END").Error)
	require.NoError(t, f.conn.Create(&models.Inventory{ProductID: a.ID, CurrentStock: 4}).Error)

	_, err := f.svc.Receive(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))

	qty, err := products.NewRepository(f.conn).StockQuantity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)

	current, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusShipped, current.Status)
}

func TestLaxTransitionsOverwriteStatus(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	order := f.order(t, "PO-1", enums.PurchaseOrderStatusReceived)

	got, err := f.svc.Approve(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusApproved, got.Status)

	got, err = f.svc.Ship(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", got.StatusDisplay)

	got, err = f.svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusCancelled, got.Status)

	_, err = f.svc.Approve(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestStrictTransitionsEnforceLifecycle(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	order := f.order(t, "PO-1", enums.PurchaseOrderStatusPending)

	_, err := f.svc.Ship(ctx, order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Receive(ctx, order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Approve(ctx, order.ID)
	require.NoError(t, err)

	status := enums.PurchaseOrderStatusReceived
	_, err = f.svc.Update(ctx, order.ID, UpdateInput{Status: &status})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Cancel(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.input("PO-1"))
	require.NoError(t, err)

	notes := "  call before delivery "
	amount := decimal.RequireFromString("12.3")
	updated, err := f.svc.Update(ctx, created.ID, UpdateInput{Notes: &notes, TotalAmount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "call before delivery", updated.Notes)
	assert.Equal(t, "12.30", updated.TotalAmount)
	assert.Equal(t, "PO-1", updated.OrderNumber)
	assert.Equal(t, f.user.ID, updated.CreatedBy)
}

func TestListFiltersOrders(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	other := dbtest.SeedSupplier(t, f.conn, "Other")

	f.order(t, "PO-1", enums.PurchaseOrderStatusPending)
	f.order(t, "PO-2", enums.PurchaseOrderStatusApproved)
	dbtest.SeedOrder(t, f.conn, other.ID, f.user.ID, "PO-3", enums.PurchaseOrderStatusPending, "1.00", fixedNow)

	pending := enums.PurchaseOrderStatusPending
	rows, err := f.svc.List(ctx, Filter{Status: &pending}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = f.svc.List(ctx, Filter{Status: &pending, SupplierID: &other.ID}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PO-3", rows[0].OrderNumber)
	assert.Equal(t, "Other", rows[0].SupplierName)

	rows, err = f.svc.List(ctx, Filter{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDeleteOrderCascadesItems(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	p := dbtest.SeedProduct(t, f.conn, f.supplier.ID, f.category.ID, dbtest.ProductSeed{})
	order := f.order(t, "PO-1", enums.PurchaseOrderStatusPending)
	dbtest.SeedItem(t, f.conn, order.ID, p.ID, 1, "1.00")

	require.NoError(t, f.svc.Delete(ctx, order.ID))

	var count int64
	require.NoError(t, f.conn.Model(&models.PurchaseOrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, pkgerrors.IsCode(f.svc.Delete(ctx, order.ID), pkgerrors.CodeNotFound))
}

func TestDashboardWithoutOrders(t *testing.T) {
	f := newFixture(t, false)

	dash, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DashboardDTO{TotalAmount: "0.00"}, *dash)
}

func TestDashboardCountsAndSums(t *testing.T) {
	f := newFixture(t, false)
	seed := func(number string, status enums.PurchaseOrderStatus, amount string, date time.Time) {
		dbtest.SeedOrder(t, f.conn, f.supplier.ID, f.user.ID, number, status, amount, date)
	}
	seed("PO-1", enums.PurchaseOrderStatusPending, "100.10", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	seed("PO-2", enums.PurchaseOrderStatusPending, "200.20", time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	seed("PO-3", enums.PurchaseOrderStatusApproved, "0.05", time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC))
	seed("PO-4", enums.PurchaseOrderStatusShipped, "1.00", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	seed("PO-5", enums.PurchaseOrderStatusReceived, "2.00", time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	dash, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DashboardDTO{
		TotalOrders:    5,
		PendingOrders:  2,
		ApprovedOrders: 1,
		ShippedOrders:  1,
		MonthlyOrders:  2,
		TotalAmount:    "303.35",
	}, *dash)
}

func TestMonthBounds(t *testing.T) {
	from, to := monthBounds(time.Date(2026, time.December, 31, 23, 0, 0, 0, time.FixedZone("x", -5*3600)))
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC), to)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, status string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if status == "" {
				return metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == status {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
