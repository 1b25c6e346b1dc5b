// Command visualize renders a previously computed packing layout as an
// interactive 3-D HTML page. It consumes the JSON response of the
// /api/optimal-packing endpoint (requested with includeLayout) and draws one
// point per packed item, with carton instances laid out side by side.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/packwise/carton-packer/internal/logging"
	"github.com/packwise/carton-packer/internal/packing"
)

type resultPayload struct {
	packing.PlanEntry
	VisualLayout *layoutPayload `json:"visualLayout"`
}

type layoutPayload struct {
	PackedCartons []packing.CartonLayout `json:"packedCartons"`
}

type allocationResponse struct {
	PackingResults    []resultPayload `json:"packingResults"`
	RemainingQuantity int             `json:"remainingQuantity"`
}

func main() {
	app := kingpin.New("visualize", "Render a carton packing layout as a 3-D HTML page")
	inputPath := app.Flag("input", "Path to a saved /api/optimal-packing response with includeLayout").Required().String()
	outputPath := app.Flag("output", "Path of the HTML file to write").Default("layout.html").String()
	title := app.Flag("title", "Chart title").Default("Carton packing layout").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New("carton-packer-visualize")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	resp, err := loadResponse(*inputPath)
	if err != nil {
		logger.Fatal("failed to load allocation response", zap.Error(err))
	}

	if err := render(resp, *title, *outputPath); err != nil {
		logger.Fatal("failed to render layout", zap.Error(err))
	}

	logger.Info("layout rendered",
		zap.String("input", *inputPath),
		zap.String("output", *outputPath),
		zap.Int("remaining_quantity", resp.RemainingQuantity),
	)
}

func loadResponse(path string) (*allocationResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var resp allocationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if len(resp.PackingResults) == 0 {
		return nil, fmt.Errorf("response holds no packing results")
	}
	for _, result := range resp.PackingResults {
		if result.VisualLayout == nil {
			return nil, fmt.Errorf("carton %d has no visualLayout; request the allocation with includeLayout", result.CartonIndex)
		}
	}
	return &resp, nil
}

func render(resp *allocationResponse, title, outputPath string) error {
	spacing := cartonSpacing(resp.PackingResults)
	series := flattenLayouts(resp.PackingResults, spacing)

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("cartons=%d remaining=%d", totalCartons(resp.PackingResults), resp.RemainingQuantity),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
		charts.WithGrid3DOpts(opts.Grid3D{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		scatter.AddSeries(name, series[name])
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := scatter.Render(out); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// cartonSpacing returns the X offset between carton instances: 1.5 times the
// widest carton footprint, so neighbouring cartons never overlap.
func cartonSpacing(results []resultPayload) float64 {
	extent := 1.0
	for _, result := range results {
		if result.VisualLayout == nil {
			continue
		}
		for _, carton := range result.VisualLayout.PackedCartons {
			for _, item := range carton.PackedItems {
				if reach := item.Position.X + item.Dimensions.Length; reach > extent {
					extent = reach
				}
			}
		}
	}
	return extent * 1.5
}

// flattenLayouts converts the per-carton layouts into one chart series per
// carton instance. Points are item centers; each successive instance shifts
// right by the spacing so the whole allocation is visible at once.
func flattenLayouts(results []resultPayload, spacing float64) map[string][]opts.Chart3DData {
	series := make(map[string][]opts.Chart3DData)
	slot := 0
	for _, result := range results {
		if result.VisualLayout == nil {
			continue
		}
		for _, carton := range result.VisualLayout.PackedCartons {
			name := fmt.Sprintf("carton %d #%d", carton.CartonIndex, carton.Instance+1)
			offset := float64(slot) * spacing
			points := make([]opts.Chart3DData, 0, len(carton.PackedItems))
			for _, item := range carton.PackedItems {
				points = append(points, opts.Chart3DData{
					Value: []interface{}{
						offset + item.Position.X + item.Dimensions.Length/2,
						item.Position.Y + item.Dimensions.Breadth/2,
						item.Position.Z + item.Dimensions.Height/2,
					},
				})
			}
			series[name] = points
			slot++
		}
	}
	return series
}

func totalCartons(results []resultPayload) int {
	total := 0
	for _, result := range results {
		total += result.CartonsUsed
	}
	return total
}
