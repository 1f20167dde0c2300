// Package checkout computes the order total from a cart subtotal and a
// store's delivery rule.
package checkout

// Summary is the delivery charge actually applied and the resulting total.
type Summary struct {
	DeliveryApplied int64 `json:"deliveryApplied"`
	Total           int64 `json:"total"`
}

// ComputeTotal applies the store delivery rule: delivery is waived iff
// freeThreshold is set and subtotal reaches it; otherwise the store's
// delivery charge (or zero when the store has none) is added. Prices are
// integral currency units.
func ComputeTotal(subtotal int64, deliveryCharge, freeThreshold *int64) Summary {
	var applied int64
	if freeThreshold != nil && subtotal >= *freeThreshold {
		applied = 0
	} else if deliveryCharge != nil {
		applied = *deliveryCharge
	}
	return Summary{
		DeliveryApplied: applied,
		Total:           subtotal + applied,
	}
}
