package inventory

import (
	"bherp/internal/core/id"
	"bherp/internal/core/types"
)

// Deplete applies sold quantities to an inventory snapshot and returns
// only the items whose stock actually changed. Items with no matching
// sold quantity are left out so callers write back the minimum set.
//
// The adjustment is pure: the input items are not mutated. Stock may go
// negative, overselling is not guarded here.
func Deplete(items []*Item, sold map[id.ID]types.Money) []*Item {
	if len(sold) == 0 {
		return nil
	}

	var changed []*Item
	for _, item := range items {
		qty, ok := sold[item.ID]
		if !ok || !qty.IsPositive() {
			continue
		}

		updated := *item
		updated.Quantity = item.Quantity.Sub(qty)
		changed = append(changed, &updated)
	}
	return changed
}
