package insights

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/cache"
	"github.com/oliviakdata/data-jobs-postings/internal/config"
	"github.com/oliviakdata/data-jobs-postings/internal/models"
	"github.com/oliviakdata/data-jobs-postings/internal/render"
)

type fakeSource struct {
	ds          models.Dataset
	fingerprint string
	err         error
}

func (s *fakeSource) Load(ctx context.Context) (models.Dataset, string, error) {
	return s.ds, s.fingerprint, s.err
}

type fakeRenderer struct {
	lineCharts []models.SummaryTable
	barCharts  []models.SummaryTable
	panels     [][]models.SummaryTable
	boxPlots   []models.SalaryDistribution
}

func (r *fakeRenderer) LineChart(table models.SummaryTable, opts render.ChartOptions) (string, error) {
	r.lineCharts = append(r.lineCharts, table)
	return opts.Filename, nil
}

func (r *fakeRenderer) HorizontalBars(table models.SummaryTable, opts render.ChartOptions) (string, error) {
	r.barCharts = append(r.barCharts, table)
	return opts.Filename, nil
}

func (r *fakeRenderer) RolePanels(tables []models.SummaryTable, opts render.ChartOptions) (string, error) {
	r.panels = append(r.panels, tables)
	return opts.Filename, nil
}

func (r *fakeRenderer) BoxPlots(dist models.SalaryDistribution, opts render.ChartOptions) (string, error) {
	r.boxPlots = append(r.boxPlots, dist)
	return opts.Filename, nil
}

type fakeCache struct {
	entries map[string][]byte
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := value.(interface{ MarshalBinary() ([]byte, error) }).MarshalBinary()
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, value interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrNotFound
	}
	c.hits++
	return value.(interface{ UnmarshalBinary([]byte) error }).UnmarshalBinary(data)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		TargetCountry:    "United States",
		TopTitlesN:       10,
		TargetRoles:      []string{"Data Analyst", "Data Engineer"},
		SkillsPerRoleK:   5,
		SalaryTitlesN:    10,
		AnalystTitle:     "data analyst",
		TopPayingSkillsK: 10,
		CacheTTL:         time.Hour,
	}
}

func testDataset() models.Dataset {
	v1, v2 := 90000.0, 110000.0
	return models.Dataset{
		{
			Country:       "United States",
			PostedAt:      time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
			Title:         "Senior Data Analyst",
			TitleShort:    "Data Analyst",
			Skills:        []string{"sql", "excel"},
			SalaryYearAvg: &v1,
		},
		{
			Country:       "United States",
			PostedAt:      time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			Title:         "Data Analyst",
			TitleShort:    "Data Analyst",
			Skills:        []string{"sql"},
			SalaryYearAvg: &v2,
		},
		{
			Country:    "Canada",
			PostedAt:   time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
			Title:      "Data Engineer",
			TitleShort: "Data Engineer",
			Skills:     []string{"python"},
		},
	}
}

func TestServiceRun(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(zap.NewNop(), testConfig(), &fakeSource{ds: testDataset(), fingerprint: "fp"}, renderer, nil, nil, nil)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(renderer.lineCharts) != 1 {
		t.Fatalf("got %d line charts, want 1", len(renderer.lineCharts))
	}
	monthly := renderer.lineCharts[0]
	if len(monthly.Rows) != 2 || monthly.Rows[0].Key != "Mar" || monthly.Rows[1].Key != "Apr" {
		t.Errorf("unexpected monthly table: %+v", monthly.Rows)
	}

	// top titles and top paying skills
	if len(renderer.barCharts) != 2 {
		t.Fatalf("got %d bar charts, want 2", len(renderer.barCharts))
	}
	titles := renderer.barCharts[0]
	if len(titles.Rows) != 2 || titles.Rows[0].Key != "Data Analyst" || titles.Rows[0].Value != 2 {
		t.Errorf("unexpected titles table: %+v", titles.Rows)
	}

	if len(renderer.panels) != 1 || len(renderer.panels[0]) != 2 {
		t.Fatalf("unexpected role panels: %+v", renderer.panels)
	}

	if len(renderer.boxPlots) != 1 {
		t.Fatalf("got %d box plots, want 1", len(renderer.boxPlots))
	}
	medians := renderer.boxPlots[0].Medians
	if len(medians.Rows) != 1 || medians.Rows[0].Key != "Data Analyst" || medians.Rows[0].Value != 100000 {
		t.Errorf("unexpected medians: %+v", medians.Rows)
	}
}

func TestServiceRunEmptyDataset(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(zap.NewNop(), testConfig(), &fakeSource{fingerprint: "fp"}, renderer, nil, nil, nil)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() on empty dataset should not error, got: %v", err)
	}
	if len(renderer.lineCharts) != 1 || !renderer.lineCharts[0].Empty() {
		t.Errorf("expected one empty monthly table, got %+v", renderer.lineCharts)
	}
}

func TestServiceRunUsesCache(t *testing.T) {
	c := newFakeCache()
	cfg := testConfig()
	source := &fakeSource{ds: testDataset(), fingerprint: "fp"}

	first := NewService(zap.NewNop(), cfg, source, &fakeRenderer{}, c, nil, nil)
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if c.hits != 0 {
		t.Fatalf("first run should not hit the cache, got %d hits", c.hits)
	}

	renderer := &fakeRenderer{}
	second := NewService(zap.NewNop(), cfg, source, renderer, c, nil, nil)
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if c.hits == 0 {
		t.Error("second run with same fingerprint should hit the cache")
	}

	// cached tables render identically
	titles := renderer.barCharts[0]
	if len(titles.Rows) != 2 || titles.Rows[0].Key != "Data Analyst" {
		t.Errorf("unexpected cached titles table: %+v", titles.Rows)
	}
}
