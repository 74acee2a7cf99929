package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/errors"
	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// Source loads the cleaned posting snapshot into memory. The returned
// fingerprint identifies the snapshot contents for cache keying.
type Source interface {
	Load(ctx context.Context) (models.Dataset, string, error)
}

// Columns the snapshot must carry. A header missing any of these is a
// fatal malformed-input error; bad values inside individual rows only
// blank the affected field.
var requiredColumns = []string{
	"job_country",
	"job_posted_date",
	"job_title",
	"job_title_short",
	"job_skills",
	"salary_year_avg",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// FileLoader reads a CSV snapshot, brotli-compressed when the path
// ends in ".br".
type FileLoader struct {
	path   string
	logger *zap.Logger
}

func NewFileLoader(path string, logger *zap.Logger) *FileLoader {
	return &FileLoader{
		path:   path,
		logger: logger,
	}
}

func (l *FileLoader) Load(ctx context.Context) (models.Dataset, string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, "", errors.NotFound("opening dataset snapshot", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("failed to close snapshot file", zap.Error(cerr))
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, "", errors.Internal("stat dataset snapshot", err)
	}
	fingerprint := fmt.Sprintf("%s:%d:%d", filepath.Base(l.path), info.ModTime().Unix(), info.Size())

	var r io.Reader = f
	if strings.HasSuffix(l.path, ".br") {
		r = brotli.NewReader(f)
	}

	ds, err := l.parse(ctx, r)
	if err != nil {
		return nil, "", err
	}
	return ds, fingerprint, nil
}

func (l *FileLoader) parse(ctx context.Context, r io.Reader) (models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.InvalidInput("reading snapshot header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("snapshot missing column %q", col), nil)
		}
	}

	var (
		ds          models.Dataset
		badDates    int
		badSalaries int
		badSkills   int
	)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.InvalidInput("reading snapshot row", err)
		}

		rec := models.PostingRecord{
			Country:    field(row, index["job_country"]),
			Title:      field(row, index["job_title"]),
			TitleShort: field(row, index["job_title_short"]),
		}

		if raw := field(row, index["job_posted_date"]); raw != "" {
			postedAt, ok := parseDate(raw)
			if ok {
				rec.PostedAt = postedAt
			} else {
				badDates++
			}
		}

		if raw := field(row, index["job_skills"]); raw != "" {
			var skills []string
			if err := json.Unmarshal([]byte(raw), &skills); err == nil {
				rec.Skills = skills
			} else {
				badSkills++
			}
		}

		if raw := field(row, index["salary_year_avg"]); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.SalaryYearAvg = &v
			} else {
				badSalaries++
			}
		}

		ds = append(ds, rec)
	}

	l.logger.Info("loaded dataset snapshot",
		zap.String("path", l.path),
		zap.Int("records", len(ds)),
		zap.Int("bad_dates", badDates),
		zap.Int("bad_salaries", badSalaries),
		zap.Int("bad_skills", badSkills))

	return ds, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
