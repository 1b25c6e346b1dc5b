package packing

import (
	"testing"
)

func TestOrientedDims(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 5, 10, 20, 1, 1)

	tests := []struct {
		orientation int
		want        Dimensions
	}{
		{0, Dimensions{Length: 5, Breadth: 10, Height: 20}},
		{1, Dimensions{Length: 10, Breadth: 20, Height: 5}},
		{2, Dimensions{Length: 20, Breadth: 5, Height: 10}},
		{3, Dimensions{Length: 5, Breadth: 20, Height: 10}},
		{4, Dimensions{Length: 20, Breadth: 10, Height: 5}},
		{5, Dimensions{Length: 10, Breadth: 5, Height: 20}},
	}

	for _, tc := range tests {
		if got := OrientedDims(product, tc.orientation); got != tc.want {
			t.Fatalf("orientation %d: expected %+v, got %+v", tc.orientation, tc.want, got)
		}
	}
}

func TestDeriveLayoutFillsInstancesInOrder(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 10, 10, 10, 1, 10)
	entry := PlanEntry{
		CartonIndex:    0,
		Orientation:    0,
		FitLengthwise:  2,
		FitBreadthwise: 2,
		FitHeightwise:  2,
		CartonsUsed:    2,
		TotalItems:     10,
	}

	layouts := DeriveLayout(product, entry)
	if len(layouts) != 2 {
		t.Fatalf("expected 2 carton layouts, got %d", len(layouts))
	}

	if got := len(layouts[0].PackedItems); got != 8 {
		t.Fatalf("expected first instance to hold 8 items, got %d", got)
	}
	if got := len(layouts[1].PackedItems); got != 2 {
		t.Fatalf("expected second instance to hold 2 items, got %d", got)
	}

	first := layouts[0].PackedItems[0]
	if first.Position != (Position{}) {
		t.Fatalf("expected first item at origin, got %+v", first.Position)
	}
	last := layouts[0].PackedItems[7]
	if want := (Position{X: 10, Y: 10, Z: 10}); last.Position != want {
		t.Fatalf("expected last item at %+v, got %+v", want, last.Position)
	}

	// Raster order: length varies fastest.
	second := layouts[1].PackedItems[1]
	if want := (Position{X: 10}); second.Position != want {
		t.Fatalf("expected second item of partial carton at %+v, got %+v", want, second.Position)
	}

	for _, layout := range layouts {
		if layout.CartonIndex != entry.CartonIndex {
			t.Fatalf("unexpected carton index %d", layout.CartonIndex)
		}
		for _, item := range layout.PackedItems {
			if item.Dimensions != (Dimensions{Length: 10, Breadth: 10, Height: 10}) {
				t.Fatalf("unexpected item dimensions %+v", item.Dimensions)
			}
		}
	}
}

func TestDeriveLayoutRespectsOrientation(t *testing.T) {
	t.Parallel()

	product := mustProduct(t, 5, 10, 20, 1, 2)
	entry := PlanEntry{
		CartonIndex:    0,
		Orientation:    1,
		FitLengthwise:  2,
		FitBreadthwise: 1,
		FitHeightwise:  1,
		CartonsUsed:    1,
		TotalItems:     2,
	}

	layouts := DeriveLayout(product, entry)
	if len(layouts) != 1 {
		t.Fatalf("expected 1 carton layout, got %d", len(layouts))
	}
	items := layouts[0].PackedItems
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	want := Dimensions{Length: 10, Breadth: 20, Height: 5}
	if items[0].Dimensions != want {
		t.Fatalf("expected oriented dims %+v, got %+v", want, items[0].Dimensions)
	}
	if items[1].Position != (Position{X: 10}) {
		t.Fatalf("expected second item offset by oriented length, got %+v", items[1].Position)
	}
}
