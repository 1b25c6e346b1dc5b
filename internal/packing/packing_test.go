package packing

import (
	"errors"
	"testing"
)

func mustProduct(t testing.TB, length, breadth, height, weight float64, quantity int) Product {
	t.Helper()
	p, err := NewProduct(length, breadth, height, weight, quantity)
	if err != nil {
		t.Fatalf("unexpected product error: %v", err)
	}
	return p
}

func mustCarton(t testing.TB, length, breadth, height, maxWeight float64, quantity int) Carton {
	t.Helper()
	c, err := NewCarton(length, breadth, height, maxWeight, quantity, DefaultBuffer)
	if err != nil {
		t.Fatalf("unexpected carton error: %v", err)
	}
	return c
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		product       Product
		cartons       []Carton
		wantPlan      []PlanEntry
		wantRemaining int
	}{
		{
			name:    "SingleCartonExactFit",
			product: mustProduct(t, 10, 10, 10, 1, 8),
			cartons: []Carton{
				mustCarton(t, 21, 21, 21, 100, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 2, FitBreadthwise: 2, FitHeightwise: 2, CartonsUsed: 1, TotalItems: 8},
			},
			wantRemaining: 0,
		},
		{
			name:    "DemandExceedsInventory",
			product: mustProduct(t, 10, 10, 10, 1, 10),
			cartons: []Carton{
				mustCarton(t, 21, 21, 21, 100, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 2, FitBreadthwise: 2, FitHeightwise: 2, CartonsUsed: 1, TotalItems: 8},
			},
			wantRemaining: 2,
		},
		{
			name:    "WeightLimitCapsCapacity",
			product: mustProduct(t, 10, 10, 10, 5, 10),
			cartons: []Carton{
				mustCarton(t, 21, 21, 21, 20, 3),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 2, FitBreadthwise: 2, FitHeightwise: 2, CartonsUsed: 3, TotalItems: 10},
			},
			wantRemaining: 0,
		},
		{
			name:    "RotationRequired",
			product: mustProduct(t, 5, 10, 20, 1, 2),
			cartons: []Carton{
				mustCarton(t, 21, 21, 6, 100, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 1, FitLengthwise: 2, FitBreadthwise: 1, FitHeightwise: 1, CartonsUsed: 1, TotalItems: 2},
			},
			wantRemaining: 0,
		},
		{
			name:    "LargerCartonPreferred",
			product: mustProduct(t, 10, 10, 10, 1, 9),
			cartons: []Carton{
				mustCarton(t, 11, 11, 11, 100, 5),
				mustCarton(t, 21, 21, 21, 100, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 1, Orientation: 0, FitLengthwise: 2, FitBreadthwise: 2, FitHeightwise: 2, CartonsUsed: 1, TotalItems: 8},
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 1, FitBreadthwise: 1, FitHeightwise: 1, CartonsUsed: 1, TotalItems: 1},
			},
			wantRemaining: 0,
		},
		{
			name:    "DemandCapMakesSmallCartonTie",
			product: mustProduct(t, 10, 10, 10, 1, 1),
			cartons: []Carton{
				mustCarton(t, 11, 11, 11, 100, 1),
				mustCarton(t, 21, 21, 21, 100, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 1, FitBreadthwise: 1, FitHeightwise: 1, CartonsUsed: 1, TotalItems: 1},
			},
			wantRemaining: 0,
		},
		{
			name:    "NothingFits",
			product: mustProduct(t, 50, 50, 50, 1, 4),
			cartons: []Carton{
				mustCarton(t, 21, 21, 21, 100, 3),
				mustCarton(t, 31, 31, 31, 100, 3),
			},
			wantPlan:      []PlanEntry{},
			wantRemaining: 4,
		},
		{
			name:    "PartialPlanKeptOnInfeasibleResidual",
			product: mustProduct(t, 10, 10, 10, 1, 12),
			cartons: []Carton{
				mustCarton(t, 21, 21, 21, 100, 1),
				mustCarton(t, 50, 11, 11, 3, 1),
			},
			wantPlan: []PlanEntry{
				{CartonIndex: 0, Orientation: 0, FitLengthwise: 2, FitBreadthwise: 2, FitHeightwise: 2, CartonsUsed: 1, TotalItems: 8},
				{CartonIndex: 1, Orientation: 0, FitLengthwise: 4, FitBreadthwise: 1, FitHeightwise: 1, CartonsUsed: 1, TotalItems: 3},
			},
			wantRemaining: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			plan, remaining := New().Allocate(tc.product, tc.cartons)

			if remaining != tc.wantRemaining {
				t.Fatalf("expected remaining %d, got %d", tc.wantRemaining, remaining)
			}
			if len(plan) != len(tc.wantPlan) {
				t.Fatalf("expected %d plan entries, got %d: %+v", len(tc.wantPlan), len(plan), plan)
			}
			for i, want := range tc.wantPlan {
				if plan[i] != want {
					t.Fatalf("entry %d: expected %+v, got %+v", i, want, plan[i])
				}
			}

			total := remaining
			for _, entry := range plan {
				total += entry.TotalItems
			}
			if total != tc.product.Quantity {
				t.Fatalf("plan accounts for %d units, product has %d", total, tc.product.Quantity)
			}
		})
	}
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 10, 10, 10, 1, 20)
	cartons := []Carton{mustCarton(t, 21, 21, 21, 100, 2)}

	_, remaining := New().Allocate(product, cartons)
	if remaining != 4 {
		t.Fatalf("expected remaining 4, got %d", remaining)
	}
	if cartons[0].Quantity != 2 {
		t.Fatalf("expected caller's carton quantity untouched, got %d", cartons[0].Quantity)
	}
}

func TestAllocateDeterminism(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 7, 13, 5, 2, 500)
	cartons := []Carton{
		mustCarton(t, 41, 41, 41, 90, 4),
		mustCarton(t, 61, 31, 21, 200, 3),
		mustCarton(t, 26, 26, 26, 50, 10),
	}

	firstPlan, firstRemaining := New().Allocate(product, cartons)
	for run := 0; run < 5; run++ {
		plan, remaining := New().Allocate(product, cartons)
		if remaining != firstRemaining {
			t.Fatalf("run %d: remaining %d differs from %d", run, remaining, firstRemaining)
		}
		if len(plan) != len(firstPlan) {
			t.Fatalf("run %d: plan length %d differs from %d", run, len(plan), len(firstPlan))
		}
		for i := range plan {
			if plan[i] != firstPlan[i] {
				t.Fatalf("run %d entry %d: %+v differs from %+v", run, i, plan[i], firstPlan[i])
			}
		}
	}
}

func TestAllocateMonotonicInCartonQuantity(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 10, 10, 10, 1, 30)

	prev := product.Quantity + 1
	for quantity := 1; quantity <= 5; quantity++ {
		cartons := []Carton{mustCarton(t, 21, 21, 21, 100, quantity)}
		_, remaining := New().Allocate(product, cartons)
		if remaining > prev {
			t.Fatalf("remaining grew from %d to %d when carton quantity rose to %d", prev, remaining, quantity)
		}
		prev = remaining
	}
}

func TestAllocateNeverExceedsInventory(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 10, 10, 10, 1, 1000)
	cartons := []Carton{
		mustCarton(t, 21, 21, 21, 100, 3),
		mustCarton(t, 31, 31, 31, 100, 2),
	}

	plan, _ := New().Allocate(product, cartons)
	for _, entry := range plan {
		if entry.CartonsUsed > cartons[entry.CartonIndex].Quantity {
			t.Fatalf("entry %+v uses more cartons than the %d available", entry, cartons[entry.CartonIndex].Quantity)
		}
		gridCap := entry.FitLengthwise * entry.FitBreadthwise * entry.FitHeightwise
		if entry.TotalItems > entry.CartonsUsed*gridCap {
			t.Fatalf("entry %+v exceeds its grid capacity %d", entry, gridCap)
		}
	}
}

func TestOrientationTable(t *testing.T) {
	t.Parallel()

	seen := make(map[[3]int]int, len(orientations))
	for i, perm := range orientations {
		axes := [3]bool{}
		for _, axis := range perm {
			if axis < 0 || axis > 2 {
				t.Fatalf("orientation %d references axis %d", i, axis)
			}
			axes[axis] = true
		}
		if !axes[0] || !axes[1] || !axes[2] {
			t.Fatalf("orientation %d is not a permutation: %v", i, perm)
		}
		if prev, dup := seen[perm]; dup {
			t.Fatalf("orientation %d duplicates orientation %d", i, prev)
		}
		seen[perm] = i
	}
}

func TestNewProductValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field    string
		length   float64
		breadth  float64
		height   float64
		weight   float64
		quantity int
	}{
		{"length", 0, 1, 1, 1, 1},
		{"breadth", 1, -2, 1, 1, 1},
		{"height", 1, 1, 0, 1, 1},
		{"weight", 1, 1, 1, 0, 1},
		{"quantity", 1, 1, 1, 1, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.field, func(t *testing.T) {
			_, err := NewProduct(tc.length, tc.breadth, tc.height, tc.weight, tc.quantity)
			if !errors.Is(err, ErrInvalidEntity) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestNewCartonValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field     string
		length    float64
		breadth   float64
		height    float64
		maxWeight float64
		quantity  int
	}{
		{"length", -1, 1, 1, 1, 1},
		{"breadth", 1, 0, 1, 1, 1},
		{"height", 1, 1, 0, 1, 1},
		{"maxWeight", 1, 1, 1, 0, 1},
		{"quantity", 1, 1, 1, 1, -3},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.field, func(t *testing.T) {
			_, err := NewCarton(tc.length, tc.breadth, tc.height, tc.maxWeight, tc.quantity, DefaultBuffer)
			if !errors.Is(err, ErrInvalidEntity) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestNewCartonAppliesBuffer(t *testing.T) {
	t.Parallel()

	c, err := NewCarton(21, 22, 23, 100, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Length != 20 || c.Breadth != 21 || c.Height != 22 {
		t.Fatalf("expected interior 20x21x22, got %vx%vx%v", c.Length, c.Breadth, c.Height)
	}
}

func TestNewCartonCollapsedInteriorFitsNothing(t *testing.T) {
	t.Parallel()

	// A stated dimension no larger than the buffer passes validation but
	// leaves no usable interior along that axis.
	c, err := NewCarton(1, 30, 30, 100, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := mustProduct(t, 5, 5, 5, 1, 3)
	plan, remaining := New().Allocate(product, []Carton{c})
	if len(plan) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
	if remaining != product.Quantity {
		t.Fatalf("expected remaining %d, got %d", product.Quantity, remaining)
	}
}

func BenchmarkAllocateSmall(b *testing.B) {
	alloc := New()
	product := mustProduct(b, 10, 10, 10, 1, 100)
	cartons := []Carton{
		mustCarton(b, 21, 21, 21, 100, 10),
		mustCarton(b, 31, 31, 31, 100, 10),
	}
	for i := 0; i < b.N; i++ {
		alloc.Allocate(product, cartons)
	}
}

func BenchmarkAllocateLarge(b *testing.B) {
	alloc := New()
	product := mustProduct(b, 7, 13, 5, 2, 50_000)
	cartons := make([]Carton, 0, 20)
	for i := 0; i < 20; i++ {
		cartons = append(cartons, mustCarton(b, float64(20+i), float64(25+i), float64(30+i), 500, 200))
	}
	for i := 0; i < b.N; i++ {
		alloc.Allocate(product, cartons)
	}
}
