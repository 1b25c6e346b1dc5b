package packing

import (
	"math"
)

type greedyAllocator struct{}

// New creates an Allocator based on greedy best-fit selection.
func New() Allocator {
	return &greedyAllocator{}
}

// Allocate packs as many product units as possible into the fewest cartons.
// Each round commits one physical carton of the type/orientation pair with the
// greatest capacity capped at the remaining demand, until demand is met or no
// carton can accept further units. A non-zero remaining count is not an error;
// it signals infeasibility for the residual amount.
//
// The carton slice is copied before mutation, so callers may reuse their
// inventory snapshot across calls.
func (a *greedyAllocator) Allocate(product Product, cartons []Carton) ([]PlanEntry, int) {
	owned := make([]Carton, len(cartons))
	copy(owned, cartons)

	remaining := product.Quantity
	entries := make(map[int]*PlanEntry, len(owned))
	order := make([]int, 0, len(owned))

	for remaining > 0 {
		best, ok := bestFit(product, owned, remaining)
		if !ok {
			break
		}

		owned[best.CartonIndex].Quantity--
		remaining -= best.TotalItems

		if entry, seen := entries[best.CartonIndex]; seen {
			entry.CartonsUsed++
			entry.TotalItems += best.TotalItems
		} else {
			entries[best.CartonIndex] = &PlanEntry{
				CartonIndex:    best.CartonIndex,
				Orientation:    best.Orientation,
				FitLengthwise:  best.FitLengthwise,
				FitBreadthwise: best.FitBreadthwise,
				FitHeightwise:  best.FitHeightwise,
				CartonsUsed:    1,
				TotalItems:     best.TotalItems,
			}
			order = append(order, best.CartonIndex)
		}
	}

	plan := make([]PlanEntry, 0, len(order))
	for _, idx := range order {
		plan = append(plan, *entries[idx])
	}
	return plan, remaining
}

// bestFit evaluates all six orientations of the product inside every carton
// type that still has stock and returns the fit with the strictly greatest
// capacity capped at the remaining demand. Ties keep the first pair
// encountered, scanning cartons in input order and orientations in table
// order.
func bestFit(product Product, cartons []Carton, remaining int) (Fit, bool) {
	var best Fit
	found := false
	dims := product.dims()

	for i, carton := range cartons {
		if carton.Quantity <= 0 {
			continue
		}

		weightCap := int(math.Floor(carton.MaxWeight / product.Weight))

		for o, perm := range orientations {
			fitL := axisCount(carton.Length, dims[perm[0]])
			fitB := axisCount(carton.Breadth, dims[perm[1]])
			fitH := axisCount(carton.Height, dims[perm[2]])

			items := fitL * fitB * fitH
			if items > weightCap {
				items = weightCap
			}
			if items <= 0 {
				continue
			}
			if items > remaining {
				items = remaining
			}

			if !found || items > best.TotalItems {
				best = Fit{
					CartonIndex:    i,
					Orientation:    o,
					FitLengthwise:  fitL,
					FitBreadthwise: fitB,
					FitHeightwise:  fitH,
					TotalItems:     items,
				}
				found = true
			}
		}
	}

	return best, found
}

// axisCount is the number of units that fit along one carton axis. The
// interior dimension can go non-positive once the clearance buffer has been
// applied; such an axis holds nothing.
func axisCount(cartonAxis, productDim float64) int {
	if cartonAxis <= 0 {
		return 0
	}
	return int(math.Floor(cartonAxis / productDim))
}
