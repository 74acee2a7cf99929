package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/analytics"
	"github.com/oliviakdata/data-jobs-postings/internal/cache"
	"github.com/oliviakdata/data-jobs-postings/internal/config"
	"github.com/oliviakdata/data-jobs-postings/internal/dataset"
	"github.com/oliviakdata/data-jobs-postings/internal/events"
	"github.com/oliviakdata/data-jobs-postings/internal/models"
	"github.com/oliviakdata/data-jobs-postings/internal/render"
	"github.com/oliviakdata/data-jobs-postings/internal/store"
	"github.com/oliviakdata/data-jobs-postings/internal/telemetry"
)

var tracer = telemetry.GetTracer("data-jobs-postings/insights")

// Service runs the whole batch: load the snapshot, compute the five
// aggregations, render their charts, and hand the tables to the
// optional collaborators. Cache, sink, and publisher may be nil when
// the corresponding backend is disabled.
type Service struct {
	logger    *zap.Logger
	config    *config.Config
	source    dataset.Source
	renderer  render.Renderer
	cache     cache.Cache
	sink      *store.SummarySink
	publisher events.Publisher
}

func NewService(
	logger *zap.Logger,
	cfg *config.Config,
	source dataset.Source,
	renderer render.Renderer,
	c cache.Cache,
	sink *store.SummarySink,
	publisher events.Publisher,
) *Service {
	return &Service{
		logger:    logger,
		config:    cfg,
		source:    source,
		renderer:  renderer,
		cache:     c,
		sink:      sink,
		publisher: publisher,
	}
}

// Run executes one insights batch and returns once every chart is
// written. The five aggregations are independent reads of the same
// immutable dataset; they run sequentially and any one producing an
// empty table never affects the others.
func (s *Service) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Service.Run")
	defer span.End()

	runID := uuid.New().String()
	cfg := s.config

	s.logger.Info("starting insights run",
		zap.String("run_id", runID),
		zap.String("country", cfg.TargetCountry))

	ds, fingerprint, err := s.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("load dataset: %w", err)
	}
	span.SetAttributes(telemetry.Int("dataset.records", len(ds)))

	monthly := s.cachedTable(ctx,
		fmt.Sprintf("summary:%s:monthly:%s", fingerprint, cfg.TargetCountry),
		func() models.SummaryTable {
			return analytics.MonthlyPostings(ds, cfg.TargetCountry)
		})

	topTitles := s.cachedTable(ctx,
		fmt.Sprintf("summary:%s:top-titles:%d", fingerprint, cfg.TopTitlesN),
		func() models.SummaryTable {
			return analytics.TopTitles(ds, cfg.TopTitlesN)
		})

	roleSkills := analytics.TopSkillsPerRole(ds, cfg.TargetCountry, cfg.TargetRoles, cfg.SkillsPerRoleK)

	salaries := s.cachedDistribution(ctx,
		fmt.Sprintf("summary:%s:salary-by-title:%s:%d", fingerprint, cfg.TargetCountry, cfg.SalaryTitlesN),
		func() models.SalaryDistribution {
			return analytics.SalaryByTitle(ds, cfg.TargetCountry, cfg.SalaryTitlesN)
		})

	payingSkills := s.cachedTable(ctx,
		fmt.Sprintf("summary:%s:top-paying:%s:%s:%d", fingerprint, cfg.TargetCountry, cfg.AnalystTitle, cfg.TopPayingSkillsK),
		func() models.SummaryTable {
			return analytics.TopPayingSkills(ds, cfg.TargetCountry, cfg.AnalystTitle, cfg.TopPayingSkillsK)
		})

	charts, err := s.renderCharts(ctx, monthly, topTitles, roleSkills, salaries, payingSkills)
	if err != nil {
		span.RecordError(err)
		return err
	}

	tables := []models.SummaryTable{monthly, topTitles}
	tables = append(tables, roleSkills...)
	tables = append(tables, salaries.Medians, payingSkills)

	s.storeTables(ctx, runID, tables)
	s.publishRun(ctx, runID, len(ds), tables, charts)

	s.logger.Info("insights run complete",
		zap.String("run_id", runID),
		zap.Int("dataset_records", len(ds)),
		zap.Int("charts", len(charts)))
	return nil
}

func (s *Service) renderCharts(
	ctx context.Context,
	monthly, topTitles models.SummaryTable,
	roleSkills []models.SummaryTable,
	salaries models.SalaryDistribution,
	payingSkills models.SummaryTable,
) ([]string, error) {
	_, span := tracer.Start(ctx, "Service.renderCharts")
	defer span.End()

	cfg := s.config
	var charts []string

	add := func(path string, err error) error {
		if err != nil {
			span.RecordError(err)
			return err
		}
		if path != "" {
			charts = append(charts, path)
		}
		return nil
	}

	if err := add(s.renderer.LineChart(monthly, render.ChartOptions{
		Filename: "monthly_job_postings_trend.png",
		Title:    fmt.Sprintf("Monthly Data Job Postings (%s)", cfg.TargetCountry),
		XLabel:   "Month",
		YLabel:   "Number of Postings",
	})); err != nil {
		return nil, fmt.Errorf("render monthly trend: %w", err)
	}

	if err := add(s.renderer.HorizontalBars(topTitles, render.ChartOptions{
		Filename: fmt.Sprintf("top_%d_job_titles.png", cfg.TopTitlesN),
		Title:    fmt.Sprintf("Top %d Job Titles in Data Job Postings", cfg.TopTitlesN),
		XLabel:   "Number of Postings",
	})); err != nil {
		return nil, fmt.Errorf("render top titles: %w", err)
	}

	if err := add(s.renderer.RolePanels(roleSkills, render.ChartOptions{
		Filename: fmt.Sprintf("top_%d_skills_top%d_role.png", cfg.SkillsPerRoleK, len(cfg.TargetRoles)),
		Title:    "Top Skills per Role",
		XLabel:   "Number of Postings",
	})); err != nil {
		return nil, fmt.Errorf("render role skills: %w", err)
	}

	if err := add(s.renderer.BoxPlots(salaries, render.ChartOptions{
		Filename: "salary_distribution_by_job_title.png",
		Title:    fmt.Sprintf("Salary Distribution by Job Title (Top %d)", cfg.SalaryTitlesN),
		XLabel:   "Yearly Salary (USD)",
	})); err != nil {
		return nil, fmt.Errorf("render salary distribution: %w", err)
	}

	if err := add(s.renderer.HorizontalBars(payingSkills, render.ChartOptions{
		Filename: "highest_paying_skills.png",
		Title:    fmt.Sprintf("Highest Paying Skills (%s)", cfg.TargetCountry),
		XLabel:   "Median Yearly Salary (USD)",
		YLabel:   "Skill",
	})); err != nil {
		return nil, fmt.Errorf("render top paying skills: %w", err)
	}

	return charts, nil
}

// storeTables persists summaries when a sink is configured. Storage is
// best effort: the charts on disk are the primary output and a sink
// failure must not fail the run.
func (s *Service) storeTables(ctx context.Context, runID string, tables []models.SummaryTable) {
	if s.sink == nil {
		return
	}
	ctx, span := tracer.Start(ctx, "Service.storeTables")
	defer span.End()

	for _, table := range tables {
		if err := s.sink.StoreTable(ctx, runID, table); err != nil {
			span.RecordError(err)
			s.logger.Warn("failed to store summary table",
				zap.String("run_id", runID),
				zap.String("summary", table.Name),
				zap.Error(err))
		}
	}
}

func (s *Service) publishRun(ctx context.Context, runID string, records int, tables []models.SummaryTable, charts []string) {
	if s.publisher == nil {
		return
	}

	stats := make([]events.TableStat, 0, len(tables))
	for _, table := range tables {
		stats = append(stats, events.TableStat{Name: table.Name, Rows: len(table.Rows)})
	}

	event := events.RunCompletedEvent{
		RunID:          runID,
		Country:        s.config.TargetCountry,
		DatasetRecords: records,
		Tables:         stats,
		Charts:         charts,
		CompletedAt:    time.Now(),
	}
	if err := s.publisher.PublishRunCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish run event",
			zap.String("run_id", runID),
			zap.Error(err))
	}
}

func (s *Service) cachedTable(ctx context.Context, key string, compute func() models.SummaryTable) models.SummaryTable {
	if s.cache != nil {
		var table models.SummaryTable
		err := s.cache.Get(ctx, key, &table)
		if err == nil {
			s.logger.Debug("summary cache hit", zap.String("key", key))
			return table
		}
		if err != cache.ErrNotFound {
			s.logger.Warn("summary cache error", zap.String("key", key), zap.Error(err))
		}
	}

	table := compute()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, table, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache summary", zap.String("key", key), zap.Error(err))
		}
	}
	return table
}

func (s *Service) cachedDistribution(ctx context.Context, key string, compute func() models.SalaryDistribution) models.SalaryDistribution {
	if s.cache != nil {
		var dist models.SalaryDistribution
		err := s.cache.Get(ctx, key, &dist)
		if err == nil {
			s.logger.Debug("summary cache hit", zap.String("key", key))
			return dist
		}
		if err != cache.ErrNotFound {
			s.logger.Warn("summary cache error", zap.String("key", key), zap.Error(err))
		}
	}

	dist := compute()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dist, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache summary", zap.String("key", key), zap.Error(err))
		}
	}
	return dist
}
