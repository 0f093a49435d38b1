package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplychain-backend/internal/purchaseorders"
	"github.com/angelmondragon/supplychain-backend/internal/suppliers"
	pkgAuth "github.com/angelmondragon/supplychain-backend/pkg/auth"
	"github.com/angelmondragon/supplychain-backend/pkg/config"
	"github.com/angelmondragon/supplychain-backend/pkg/enums"
	"github.com/angelmondragon/supplychain-backend/pkg/logger"
	"github.com/angelmondragon/supplychain-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

// stubSuppliers only implements List; other methods panic through the nil embed.
type stubSuppliers struct {
	suppliers.Service
	queries []string
}

func (s *stubSuppliers) List(_ context.Context, input suppliers.ListInput) ([]suppliers.SupplierDTO, error) {
	s.queries = append(s.queries, input.Query)
	return []suppliers.SupplierDTO{}, nil
}

type stubOrders struct {
	purchaseorders.Service
	dashboards int
	received   []uuid.UUID
}

func (s *stubOrders) Dashboard(context.Context) (*purchaseorders.DashboardDTO, error) {
	s.dashboards++
	return &purchaseorders.DashboardDTO{TotalAmount: "0.00"}, nil
}

func (s *stubOrders) Receive(_ context.Context, id uuid.UUID) (*purchaseorders.OrderDTO, error) {
	s.received = append(s.received, id)
	return &purchaseorders.OrderDTO{ID: id, Status: enums.PurchaseOrderStatusReceived}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		JWT:     config.JWTConfig{Secret: "secret", Issuer: "supplychain", ExpirationMinutes: 15},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T, svc Services) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := NewRouter(cfg, logg, Infra{
		DB:          stubPinger{},
		Sessions:    stubSessions{},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	}, svc)
	return handler, cfg
}

func bearer(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tester",
		Role:     role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(handler http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	handler, _ := newTestRouter(t, Services{})

	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health/ready", "").Code)
}

func TestAPIRequiresToken(t *testing.T) {
	handler, _ := newTestRouter(t, Services{Suppliers: &stubSuppliers{}})

	rec := serve(handler, http.MethodGet, "/api/v1/suppliers", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrailingSlashAndSearchRouting(t *testing.T) {
	stub := &stubSuppliers{}
	handler, cfg := newTestRouter(t, Services{Suppliers: stub})
	auth := bearer(t, cfg, enums.UserRoleMember)

	require.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/api/v1/suppliers/", auth).Code)
	require.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/api/v1/suppliers/search/?q=Acme", auth).Code)
	assert.Equal(t, []string{"", "Acme"}, stub.queries)
}

func TestDashboardIsNotTreatedAsOrderID(t *testing.T) {
	stub := &stubOrders{}
	handler, cfg := newTestRouter(t, Services{PurchaseOrders: stub})

	rec := serve(handler, http.MethodGet, "/api/v1/purchase-orders/dashboard", bearer(t, cfg, enums.UserRoleMember))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.dashboards)
}

func TestReceiveRoute(t *testing.T) {
	stub := &stubOrders{}
	handler, cfg := newTestRouter(t, Services{PurchaseOrders: stub})
	id := uuid.New()

	rec := serve(handler, http.MethodPost, "/api/v1/purchase-orders/"+id.String()+"/receive/", bearer(t, cfg, enums.UserRoleMember))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, stub.received)
	assert.Contains(t, rec.Body.String(), `"status":"received"`)
}

func TestUserCreationIsStaffOnly(t *testing.T) {
	handler, cfg := newTestRouter(t, Services{})

	rec := serve(handler, http.MethodPost, "/api/v1/users", bearer(t, cfg, enums.UserRoleMember))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// staff passes the role gate and reaches the (absent) service
	rec = serve(handler, http.MethodPost, "/api/v1/users", bearer(t, cfg, enums.UserRoleStaff))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpointExposesRequestCounts(t *testing.T) {
	handler, _ := newTestRouter(t, Services{})
	serve(handler, http.MethodGet, "/health/live", "")

	rec := serve(handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/health/live",status="200"} 1`))
}
