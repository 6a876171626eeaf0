package utils

import (
	"fmt"
	"sort"
	"strings"
)

// FingerprintItem is one cart line reduced to the fields that matter for
// duplicate detection.
type FingerprintItem struct {
	ItemID   uint
	Quantity int
}

// CartFingerprint builds an order-independent representation of cart
// contents: lines sorted by item id (then quantity), rendered as
// "id:qty|id:qty|...". Two submissions with the same items in any order
// produce the same fingerprint.
func CartFingerprint(items []FingerprintItem) string {
	sorted := make([]FingerprintItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ItemID != sorted[j].ItemID {
			return sorted[i].ItemID < sorted[j].ItemID
		}
		return sorted[i].Quantity < sorted[j].Quantity
	})

	parts := make([]string, 0, len(sorted))
	for _, it := range sorted {
		parts = append(parts, fmt.Sprintf("%d:%d", it.ItemID, it.Quantity))
	}
	return strings.Join(parts, "|")
}
