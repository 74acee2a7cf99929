package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// SummarySink persists computed summary tables, one row per (key,
// value) pair, tagged with the run that produced them. Row position is
// stored so the sort order each aggregation guarantees survives the
// round trip.
type SummarySink struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func NewSummarySink(conn clickhouse.Conn, logger *zap.Logger) *SummarySink {
	return &SummarySink{
		conn:   conn,
		logger: logger,
	}
}

func (s *SummarySink) StoreTable(ctx context.Context, runID string, table models.SummaryTable) error {
	if table.Empty() {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO summary_rows")
	if err != nil {
		return fmt.Errorf("prepare summary batch: %w", err)
	}

	now := time.Now()
	for i, row := range table.Rows {
		if err := batch.Append(runID, table.Name, uint32(i), row.Key, row.Group, row.Value, now); err != nil {
			return fmt.Errorf("append summary row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert summary rows: %w", err)
	}

	s.logger.Debug("stored summary table",
		zap.String("run_id", runID),
		zap.String("summary", table.Name),
		zap.Int("rows", len(table.Rows)))
	return nil
}
