package packing

// Product is a single product type to be packed. All fields are validated at
// construction and never mutated afterwards.
type Product struct {
	Length   float64
	Breadth  float64
	Height   float64
	Weight   float64
	Quantity int
}

// Carton is one carton type with its usable interior dimensions (the stated
// exterior dimensions minus the clearance buffer) and the number of physical
// cartons still available. Quantity is decremented by the allocator as
// instances are committed, so callers must hand each allocation its own copy.
type Carton struct {
	Length    float64
	Breadth   float64
	Height    float64
	MaxWeight float64
	Quantity  int
}

// DefaultBuffer is the clearance subtracted from each carton dimension when
// no explicit buffer is given.
const DefaultBuffer = 1.0

// NewProduct validates and constructs a Product.
func NewProduct(length, breadth, height, weight float64, quantity int) (Product, error) {
	switch {
	case length <= 0:
		return Product{}, &ValidationError{Entity: "product", Field: "length"}
	case breadth <= 0:
		return Product{}, &ValidationError{Entity: "product", Field: "breadth"}
	case height <= 0:
		return Product{}, &ValidationError{Entity: "product", Field: "height"}
	case weight <= 0:
		return Product{}, &ValidationError{Entity: "product", Field: "weight"}
	case quantity <= 0:
		return Product{}, &ValidationError{Entity: "product", Field: "quantity"}
	}
	return Product{
		Length:   length,
		Breadth:  breadth,
		Height:   height,
		Weight:   weight,
		Quantity: quantity,
	}, nil
}

// NewCarton validates the stated exterior dimensions and constructs a Carton
// with the clearance buffer already subtracted. Validation runs against the
// stated dimensions, so a carton whose interior collapses to zero after the
// buffer is still constructed; it simply never fits anything.
func NewCarton(length, breadth, height, maxWeight float64, quantity int, buffer float64) (Carton, error) {
	switch {
	case length <= 0:
		return Carton{}, &ValidationError{Entity: "carton", Field: "length"}
	case breadth <= 0:
		return Carton{}, &ValidationError{Entity: "carton", Field: "breadth"}
	case height <= 0:
		return Carton{}, &ValidationError{Entity: "carton", Field: "height"}
	case maxWeight <= 0:
		return Carton{}, &ValidationError{Entity: "carton", Field: "maxWeight"}
	case quantity <= 0:
		return Carton{}, &ValidationError{Entity: "carton", Field: "quantity"}
	}
	return Carton{
		Length:    length - buffer,
		Breadth:   breadth - buffer,
		Height:    height - buffer,
		MaxWeight: maxWeight,
		Quantity:  quantity,
	}, nil
}

// dims returns the product dimensions indexed by axis: 0=length, 1=breadth,
// 2=height.
func (p Product) dims() [3]float64 {
	return [3]float64{p.Length, p.Breadth, p.Height}
}

// orientations is the fixed table of the six axis-aligned permutations. Each
// triple lists, per carton axis (length, breadth, height), the index of the
// product dimension assigned to it. The table order is the tie-break order
// and must not be rearranged.
var orientations = [6][3]int{
	{0, 1, 2},
	{1, 2, 0},
	{2, 0, 1},
	{0, 2, 1},
	{2, 1, 0},
	{1, 0, 2},
}

// Fit is a single orientation evaluation of one carton type: how many units
// fit along each carton axis and how many fit in total once the weight limit
// and remaining demand are applied.
type Fit struct {
	CartonIndex    int
	Orientation    int
	FitLengthwise  int
	FitBreadthwise int
	FitHeightwise  int
	TotalItems     int
}

// PlanEntry aggregates every committed instance of one carton type. The
// orientation and per-axis fits are the ones recorded when the type was first
// chosen; CartonsUsed and TotalItems accumulate across all its instances.
type PlanEntry struct {
	CartonIndex    int `json:"cartonIndex"`
	Orientation    int `json:"orientation"`
	FitLengthwise  int `json:"fitLengthwise"`
	FitBreadthwise int `json:"fitBreadthwise"`
	FitHeightwise  int `json:"fitHeightwise"`
	CartonsUsed    int `json:"cartonsUsed"`
	TotalItems     int `json:"totalItems"`
}

// Allocator describes the behaviour required from a packing allocator.
type Allocator interface {
	Allocate(product Product, cartons []Carton) ([]PlanEntry, int)
}
