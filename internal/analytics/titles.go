package analytics

import (
	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// TopTitles counts occurrences of each normalized job title across the
// whole dataset and keeps the n most frequent. Rows are ordered by
// count descending; equal counts keep first-seen order. Records with
// an empty normalized title are skipped.
func TopTitles(ds models.Dataset, n int) models.SummaryTable {
	c := newCounter()
	for _, rec := range ds {
		if rec.TitleShort == "" {
			continue
		}
		c.add(rec.TitleShort)
	}

	table := models.SummaryTable{Name: "top_titles"}
	for _, title := range c.top(n) {
		table.Rows = append(table.Rows, models.Row{
			Key:   title,
			Value: float64(c.count(title)),
		})
	}
	return table
}
