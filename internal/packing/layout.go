package packing

// The allocator reports aggregate counts only. Hosts that need per-item
// coordinates (the 3-D viewer, warehouse slotting) derive them here by raster
// traversal of the fit grid, which keeps placement fully determined by the
// plan entry.

// Position is the corner of a packed item closest to the carton origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions are the product dimensions as oriented inside the carton.
type Dimensions struct {
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
}

// PackedItem is one product unit placed inside one carton instance.
type PackedItem struct {
	Position   Position   `json:"position"`
	Dimensions Dimensions `json:"dimensions"`
}

// CartonLayout lists the placements inside one physical carton instance.
type CartonLayout struct {
	CartonIndex int          `json:"cartonIndex"`
	Instance    int          `json:"instance"`
	PackedItems []PackedItem `json:"packedItems"`
}

// OrientedDims returns the product dimensions mapped onto the carton axes for
// the given orientation id.
func OrientedDims(product Product, orientation int) Dimensions {
	dims := product.dims()
	perm := orientations[orientation]
	return Dimensions{
		Length:  dims[perm[0]],
		Breadth: dims[perm[1]],
		Height:  dims[perm[2]],
	}
}

// DeriveLayout expands one plan entry into per-instance placements. Items are
// laid out in raster order (length fastest, then breadth, then height); each
// instance is filled to its grid capacity before the next one starts, so the
// traversal is reproducible from the entry alone.
func DeriveLayout(product Product, entry PlanEntry) []CartonLayout {
	oriented := OrientedDims(product, entry.Orientation)
	gridCap := entry.FitLengthwise * entry.FitBreadthwise * entry.FitHeightwise

	layouts := make([]CartonLayout, 0, entry.CartonsUsed)
	left := entry.TotalItems

	for instance := 0; instance < entry.CartonsUsed; instance++ {
		count := gridCap
		if count > left {
			count = left
		}

		items := make([]PackedItem, 0, count)
		placed := 0
	grid:
		for k := 0; k < entry.FitHeightwise; k++ {
			for j := 0; j < entry.FitBreadthwise; j++ {
				for i := 0; i < entry.FitLengthwise; i++ {
					if placed >= count {
						break grid
					}
					items = append(items, PackedItem{
						Position: Position{
							X: float64(i) * oriented.Length,
							Y: float64(j) * oriented.Breadth,
							Z: float64(k) * oriented.Height,
						},
						Dimensions: oriented,
					})
					placed++
				}
			}
		}

		layouts = append(layouts, CartonLayout{
			CartonIndex: entry.CartonIndex,
			Instance:    instance,
			PackedItems: items,
		})
		left -= count
	}

	return layouts
}
