package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/errors"
	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// PostingSource loads the posting dataset from the ClickHouse postings
// table, as an alternative to the file snapshot. It satisfies the same
// dataset.Source contract as the file loader.
type PostingSource struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func NewPostingSource(conn clickhouse.Conn, logger *zap.Logger) *PostingSource {
	return &PostingSource{
		conn:   conn,
		logger: logger,
	}
}

func (s *PostingSource) Load(ctx context.Context) (models.Dataset, string, error) {
	query := `
		SELECT country, posted_at, title, title_short, skills, salary_year_avg
		FROM postings
		ORDER BY loaded_at, country, title_short
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, "", errors.Unavailable("querying postings", err)
	}
	defer rows.Close()

	var ds models.Dataset
	for rows.Next() {
		var (
			country    string
			postedAt   *time.Time
			title      string
			titleShort string
			skills     []string
			salary     *float64
		)
		if err := rows.Scan(&country, &postedAt, &title, &titleShort, &skills, &salary); err != nil {
			return nil, "", errors.Internal("scanning posting row", err)
		}

		rec := models.PostingRecord{
			Country:       country,
			Title:         title,
			TitleShort:    titleShort,
			Skills:        skills,
			SalaryYearAvg: salary,
		}
		if postedAt != nil {
			rec.PostedAt = *postedAt
		}
		ds = append(ds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", errors.Internal("reading posting rows", err)
	}

	s.logger.Info("loaded postings from clickhouse", zap.Int("records", len(ds)))

	fingerprint := fmt.Sprintf("clickhouse:postings:%d", len(ds))
	return ds, fingerprint, nil
}
