package storage

import (
	"errors"
	"sync"
)

const maxCartonTypes = 25

var (
	// ErrInvalidCartonSpecs indicates the provided carton specs violate validation rules.
	ErrInvalidCartonSpecs = errors.New("carton specs must contain between 1 and 25 entries with positive dimensions, weight limit, and quantity")
)

// CartonSpec is a carton type as stated by the warehouse: exterior dimensions,
// weight limit, and stock. Buffer overrides the configured clearance when set.
type CartonSpec struct {
	Length    float64  `json:"length" yaml:"length"`
	Breadth   float64  `json:"breadth" yaml:"breadth"`
	Height    float64  `json:"height" yaml:"height"`
	MaxWeight float64  `json:"maxWeight" yaml:"max_weight"`
	Quantity  int      `json:"quantity" yaml:"quantity"`
	Buffer    *float64 `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

var defaultCartons = []CartonSpec{
	{Length: 31, Breadth: 21, Height: 21, MaxWeight: 50, Quantity: 100},
	{Length: 41, Breadth: 31, Height: 31, MaxWeight: 100, Quantity: 100},
	{Length: 61, Breadth: 41, Height: 41, MaxWeight: 150, Quantity: 50},
}

// Storage provides access to the carton catalog used when a packing request
// does not carry its own carton list.
type Storage interface {
	GetCartons() ([]CartonSpec, error)
	SetCartons(specs []CartonSpec) error
}

// MemoryStorage keeps the carton catalog in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	cartons []CartonSpec
}

// NewMemoryStorage initialises storage with a copy of the default catalog.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		cartons: cloneSpecs(defaultCartons),
	}
}

// DefaultCartons returns a copy of the default carton catalog.
func DefaultCartons() []CartonSpec {
	return cloneSpecs(defaultCartons)
}

// GetCartons returns a defensive copy of the current catalog in stored order.
func (s *MemoryStorage) GetCartons() ([]CartonSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSpecs(s.cartons), nil
}

// SetCartons validates and stores the provided catalog. Order is preserved:
// it is the scan order of the allocation loop.
func (s *MemoryStorage) SetCartons(specs []CartonSpec) error {
	if err := ValidateSpecs(specs); err != nil {
		return err
	}
	stored := cloneSpecs(specs)

	s.mu.Lock()
	s.cartons = stored
	s.mu.Unlock()

	return nil
}

// ValidateSpecs checks every spec for positive fields and bounds the catalog size.
func ValidateSpecs(specs []CartonSpec) error {
	if len(specs) == 0 || len(specs) > maxCartonTypes {
		return ErrInvalidCartonSpecs
	}
	for _, spec := range specs {
		if spec.Length <= 0 || spec.Breadth <= 0 || spec.Height <= 0 {
			return ErrInvalidCartonSpecs
		}
		if spec.MaxWeight <= 0 || spec.Quantity <= 0 {
			return ErrInvalidCartonSpecs
		}
		if spec.Buffer != nil && *spec.Buffer < 0 {
			return ErrInvalidCartonSpecs
		}
	}
	return nil
}

func cloneSpecs(src []CartonSpec) []CartonSpec {
	if len(src) == 0 {
		return []CartonSpec{}
	}

	out := make([]CartonSpec, len(src))
	copy(out, src)
	for i := range out {
		if src[i].Buffer != nil {
			buffer := *src[i].Buffer
			out[i].Buffer = &buffer
		}
	}
	return out
}
