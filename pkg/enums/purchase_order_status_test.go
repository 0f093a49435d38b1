package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseOrderStatus(t *testing.T) {
	status, err := ParsePurchaseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusShipped, status)
	assert.Equal(t, "Shipped", status.Display())

	_, err = ParsePurchaseOrderStatus("SHIPPED")
	assert.Error(t, err)
	assert.Equal(t, "unknown", PurchaseOrderStatus("unknown").Display())
}

func TestPurchaseOrderStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to PurchaseOrderStatus
		allowed  bool
	}{
		{PurchaseOrderStatusPending, PurchaseOrderStatusApproved, true},
		{PurchaseOrderStatusApproved, PurchaseOrderStatusShipped, true},
		{PurchaseOrderStatusShipped, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusPending, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusApproved, PurchaseOrderStatusPending, false},
		{PurchaseOrderStatusPending, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusShipped, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusApproved, false},
		{PurchaseOrderStatusPending, PurchaseOrderStatus("bogus"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
