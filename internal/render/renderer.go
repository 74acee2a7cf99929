package render

import (
	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// ChartOptions carries the per-chart presentation knobs. Filename is
// relative to the renderer's output directory.
type ChartOptions struct {
	Filename string
	Title    string
	XLabel   string
	YLabel   string
}

// Renderer turns summary tables into chart images. Implementations
// must respect the row order of each table; the aggregations already
// sorted them for presentation. An empty table yields no file and the
// empty path.
type Renderer interface {
	// LineChart draws one point per row, in row order.
	LineChart(table models.SummaryTable, opts ChartOptions) (string, error)

	// HorizontalBars draws one bar per row, the first row at the bottom.
	HorizontalBars(table models.SummaryTable, opts ChartOptions) (string, error)

	// RolePanels draws one horizontal-bar panel per table, stacked
	// vertically in table order.
	RolePanels(tables []models.SummaryTable, opts ChartOptions) (string, error)

	// BoxPlots draws one box per median row using the row-level salary
	// samples, the first row at the bottom.
	BoxPlots(dist models.SalaryDistribution, opts ChartOptions) (string, error)
}
