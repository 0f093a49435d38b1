package enums

import "fmt"

// PurchaseOrderStatus tracks the lifecycle of a purchase order.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusShipped   PurchaseOrderStatus = "shipped"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusApproved,
	PurchaseOrderStatusShipped,
	PurchaseOrderStatusReceived,
	PurchaseOrderStatusCancelled,
}

var purchaseOrderStatusLabels = map[PurchaseOrderStatus]string{
	PurchaseOrderStatusPending:   "Pending",
	PurchaseOrderStatusApproved:  "Approved",
	PurchaseOrderStatusShipped:   "Shipped",
	PurchaseOrderStatusReceived:  "Received",
	PurchaseOrderStatusCancelled: "Cancelled",
}

// forward edges of the strict lifecycle; cancellation is handled separately.
var purchaseOrderTransitions = map[PurchaseOrderStatus]PurchaseOrderStatus{
	PurchaseOrderStatusPending:  PurchaseOrderStatusApproved,
	PurchaseOrderStatusApproved: PurchaseOrderStatusShipped,
	PurchaseOrderStatusShipped:  PurchaseOrderStatusReceived,
}

// String implements fmt.Stringer.
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// Display returns the human readable label for the status.
func (s PurchaseOrderStatus) Display() string {
	if label, ok := purchaseOrderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (s PurchaseOrderStatus) IsValid() bool {
	for _, candidate := range validPurchaseOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransition reports whether the strict lifecycle allows moving to next.
func (s PurchaseOrderStatus) CanTransition(next PurchaseOrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == PurchaseOrderStatusCancelled {
		return true
	}
	return purchaseOrderTransitions[s] == next
}

// ParsePurchaseOrderStatus converts raw input into a PurchaseOrderStatus.
func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	for _, candidate := range validPurchaseOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase order status %q", value)
}
