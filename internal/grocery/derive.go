package grocery

import "sort"

// Recompute derives totalPrice and isCheapest from each store's breakdown and
// sorts ascending by total. The model's own arithmetic and cheapest claims
// are never trusted. Ties go to the first store in input order; the function
// is idempotent.
func Recompute(stores []StoreEstimate) []StoreEstimate {
	if len(stores) == 0 {
		return []StoreEstimate{}
	}

	out := make([]StoreEstimate, len(stores))
	copy(out, stores)

	cheapestIdx := 0
	for i := range out {
		total := 0.0
		for _, row := range out[i].PriceBreakdown {
			total += row.Price
		}
		out[i].TotalPrice = total
		out[i].IsCheapest = false

		if total < out[cheapestIdx].TotalPrice {
			cheapestIdx = i
		}
	}
	out[cheapestIdx].IsCheapest = true

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice < out[j].TotalPrice
	})
	return out
}
