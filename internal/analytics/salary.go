package analytics

import (
	"sort"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// SalaryByTitle computes, for the n most frequent normalized titles
// within one country, the median yearly salary per title. Frequency
// ranking follows the same rule as TopTitles but scoped to the country
// subset. Medians are computed over non-null salaries only; a title
// whose postings carry no salary at all is left out of the median
// table. Rows are ordered ascending by median value.
//
// The returned distribution also carries the row-level salary samples
// for each of the n titles (possibly empty), since the downstream box
// plot shows full distributions rather than just the medians.
func SalaryByTitle(ds models.Dataset, country string, n int) models.SalaryDistribution {
	sub := ds.FilterCountry(country)

	c := newCounter()
	for _, rec := range sub {
		if rec.TitleShort == "" {
			continue
		}
		c.add(rec.TitleShort)
	}
	top := c.top(n)

	samples := make(map[string][]float64, len(top))
	inTop := make(map[string]bool, len(top))
	for _, title := range top {
		samples[title] = []float64{}
		inTop[title] = true
	}
	for _, rec := range sub {
		if !inTop[rec.TitleShort] || !rec.HasSalary() {
			continue
		}
		samples[rec.TitleShort] = append(samples[rec.TitleShort], *rec.SalaryYearAvg)
	}

	medians := models.SummaryTable{Name: "salary_by_title"}
	for _, title := range top {
		if len(samples[title]) == 0 {
			continue
		}
		medians.Rows = append(medians.Rows, models.Row{
			Key:   title,
			Value: median(samples[title]),
		})
	}
	sort.SliceStable(medians.Rows, func(i, j int) bool {
		return medians.Rows[i].Value < medians.Rows[j].Value
	})

	return models.SalaryDistribution{
		Medians: medians,
		Samples: samples,
	}
}
