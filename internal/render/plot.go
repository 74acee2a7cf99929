package render

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var (
	barWidth = vg.Points(18)
	boxWidth = vg.Points(20)
)

// PlotRenderer writes PNG charts with gonum/plot.
type PlotRenderer struct {
	dir    string
	logger *zap.Logger
}

func NewPlotRenderer(dir string, logger *zap.Logger) (*PlotRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating charts directory: %w", err)
	}
	return &PlotRenderer{
		dir:    dir,
		logger: logger,
	}, nil
}

func (r *PlotRenderer) LineChart(table models.SummaryTable, opts ChartOptions) (string, error) {
	if table.Empty() {
		r.logger.Warn("skipping empty chart", zap.String("chart", opts.Filename))
		return "", nil
	}

	p := plot.New()
	applyLabels(p, opts)

	xys := make(plotter.XYs, len(table.Rows))
	labels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		xys[i].X = float64(i)
		xys[i].Y = row.Value
		labels[i] = row.Key
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", fmt.Errorf("building line chart: %w", err)
	}
	line.Width = vg.Points(2)
	p.Add(line, points)
	p.NominalX(labels...)

	return r.save(p, opts.Filename)
}

func (r *PlotRenderer) HorizontalBars(table models.SummaryTable, opts ChartOptions) (string, error) {
	if table.Empty() {
		r.logger.Warn("skipping empty chart", zap.String("chart", opts.Filename))
		return "", nil
	}

	p := plot.New()
	applyLabels(p, opts)
	if err := addBars(p, table); err != nil {
		return "", err
	}

	return r.save(p, opts.Filename)
}

func (r *PlotRenderer) RolePanels(tables []models.SummaryTable, opts ChartOptions) (string, error) {
	var filled []models.SummaryTable
	for _, table := range tables {
		if !table.Empty() {
			filled = append(filled, table)
		}
	}
	if len(filled) == 0 {
		r.logger.Warn("skipping empty chart", zap.String("chart", opts.Filename))
		return "", nil
	}

	plots := make([][]*plot.Plot, len(filled))
	for i, table := range filled {
		p := plot.New()
		p.Title.Text = table.Name
		p.X.Label.Text = opts.XLabel
		if err := addBars(p, table); err != nil {
			return "", err
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(chartWidth, vg.Length(len(filled))*3*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(filled),
		Cols: 1,
		PadY: vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	path := filepath.Join(r.dir, opts.Filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("writing chart %s: %w", opts.Filename, err)
	}

	r.logger.Debug("wrote chart", zap.String("path", path))
	return path, nil
}

func (r *PlotRenderer) BoxPlots(dist models.SalaryDistribution, opts ChartOptions) (string, error) {
	if dist.Medians.Empty() {
		r.logger.Warn("skipping empty chart", zap.String("chart", opts.Filename))
		return "", nil
	}

	p := plot.New()
	applyLabels(p, opts)

	labels := make([]string, 0, len(dist.Medians.Rows))
	for _, row := range dist.Medians.Rows {
		samples := dist.Samples[row.Key]
		box, err := plotter.NewBoxPlot(boxWidth, float64(len(labels)), plotter.Values(samples))
		if err != nil {
			return "", fmt.Errorf("building box plot for %q: %w", row.Key, err)
		}
		box.Horizontal = true
		p.Add(box)
		labels = append(labels, row.Key)
	}
	p.NominalY(labels...)

	return r.save(p, opts.Filename)
}

func addBars(p *plot.Plot, table models.SummaryTable) error {
	values := make(plotter.Values, len(table.Rows))
	labels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		values[i] = row.Value
		labels[i] = row.Key
	}

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)
	return nil
}

func applyLabels(p *plot.Plot, opts ChartOptions) {
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
}

func (r *PlotRenderer) save(p *plot.Plot, filename string) (string, error) {
	path := filepath.Join(r.dir, filename)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", fmt.Errorf("writing chart %s: %w", filename, err)
	}
	r.logger.Debug("wrote chart", zap.String("path", path))
	return path, nil
}
