package analytics

import (
	"time"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// MonthlyPostings counts postings per calendar month for a single
// country (exact match). Rows are ordered by month number, not by
// label or count, so the trend line reads January through December.
// Months with no postings are omitted rather than reported as zero,
// and postings without a date contribute nothing.
func MonthlyPostings(ds models.Dataset, country string) models.SummaryTable {
	var counts [13]int
	for _, rec := range ds {
		if rec.Country != country || !rec.HasPostedDate() {
			continue
		}
		counts[int(rec.PostedAt.Month())]++
	}

	table := models.SummaryTable{Name: "monthly_postings"}
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		table.Rows = append(table.Rows, models.Row{
			Key:   m.String()[:3],
			Value: float64(counts[m]),
		})
	}
	return table
}
