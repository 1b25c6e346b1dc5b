package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/packwise/carton-packer/internal/packing"
	"github.com/packwise/carton-packer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires allocator and storage dependencies into HTTP handlers.
type Handler struct {
	allocator packing.Allocator
	storage   storage.Storage
	buffer    float64

	clock func() time.Time

	mu               sync.RWMutex
	catalogUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithClearanceBuffer sets the clearance subtracted from carton dimensions
// when a carton spec does not carry its own buffer.
func WithClearanceBuffer(buffer float64) HandlerOption {
	return func(h *Handler) {
		h.buffer = buffer
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(alloc packing.Allocator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		allocator: alloc,
		storage:   store,
		buffer:    packing.DefaultBuffer,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.catalogUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCartons(w http.ResponseWriter, r *http.Request) {
	_ = r
	cartons, err := h.storage.GetCartons()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := cartonsResponse{
		Cartons:   cartons,
		UpdatedAt: h.currentCatalogUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCartons(w http.ResponseWriter, r *http.Request) {
	var req cartonsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Cartons) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid cartons", "cartons must contain at least one spec")
		return
	}

	if err := h.storage.SetCartons(req.Cartons); err != nil {
		if errors.Is(err, storage.ErrInvalidCartonSpecs) {
			writeError(w, http.StatusBadRequest, "Invalid cartons", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCatalogUpdated()

	cartons, err := h.storage.GetCartons()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := cartonsResponse{
		Cartons:   cartons,
		UpdatedAt: h.currentCatalogUpdatedAt(),
		Message:   "Carton catalog updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimalPacking(w http.ResponseWriter, r *http.Request) {
	var req packingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Product == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "missing product data")
		return
	}

	product, err := packing.NewProduct(
		req.Product.Length,
		req.Product.Breadth,
		req.Product.Height,
		req.Product.Weight,
		req.Product.Quantity,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product", err.Error())
		return
	}

	specs := req.Cartons
	if len(specs) == 0 {
		specs, err = h.storage.GetCartons()
		if err != nil {
			writeInternalError(w, err)
			return
		}
	}

	cartons, err := h.buildCartons(specs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid carton", err.Error())
		return
	}

	start := time.Now()
	plan, remaining := h.allocator.Allocate(product, cartons)
	elapsed := time.Since(start)

	results := make([]packingResult, 0, len(plan))
	for _, entry := range plan {
		result := packingResult{PlanEntry: entry}
		if req.IncludeLayout {
			result.VisualLayout = &visualLayout{
				PackedCartons: packing.DeriveLayout(product, entry),
			}
		}
		results = append(results, result)
	}

	resp := packingResponse{
		Success:           true,
		PackingResults:    results,
		RemainingQuantity: remaining,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// buildCartons converts stated carton specs into validated cartons with the
// clearance buffer applied, preserving input order.
func (h *Handler) buildCartons(specs []storage.CartonSpec) ([]packing.Carton, error) {
	cartons := make([]packing.Carton, 0, len(specs))
	for i, spec := range specs {
		buffer := h.buffer
		if spec.Buffer != nil {
			buffer = *spec.Buffer
		}
		carton, err := packing.NewCarton(spec.Length, spec.Breadth, spec.Height, spec.MaxWeight, spec.Quantity, buffer)
		if err != nil {
			return nil, fmt.Errorf("carton %d: %w", i, err)
		}
		cartons = append(cartons, carton)
	}
	return cartons, nil
}

func (h *Handler) currentCatalogUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalogUpdatedAt
}

func (h *Handler) markCatalogUpdated() {
	h.mu.Lock()
	h.catalogUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type productPayload struct {
	Length   float64 `json:"length"`
	Breadth  float64 `json:"breadth"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
}

type packingRequest struct {
	Product       *productPayload      `json:"product"`
	Cartons       []storage.CartonSpec `json:"cartons"`
	IncludeLayout bool                 `json:"includeLayout"`
}

type cartonsRequest struct {
	Cartons []storage.CartonSpec `json:"cartons"`
}

type packingResult struct {
	packing.PlanEntry
	VisualLayout *visualLayout `json:"visualLayout,omitempty"`
}

type visualLayout struct {
	PackedCartons []packing.CartonLayout `json:"packedCartons"`
}

type packingResponse struct {
	Success           bool            `json:"success"`
	PackingResults    []packingResult `json:"packingResults"`
	RemainingQuantity int             `json:"remainingQuantity"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type cartonsResponse struct {
	Cartons   []storage.CartonSpec `json:"cartons"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Message   string               `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
