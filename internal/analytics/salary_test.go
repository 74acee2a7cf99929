package analytics

import (
	"testing"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

func TestSalaryByTitle(t *testing.T) {
	ds := models.Dataset{
		{Country: "United States", TitleShort: "Data Analyst", SalaryYearAvg: salary(90000)},
		{Country: "United States", TitleShort: "Data Analyst", SalaryYearAvg: salary(110000)},
		{Country: "United States", TitleShort: "Data Analyst"}, // null salary ignored in median
		{Country: "United States", TitleShort: "Data Engineer", SalaryYearAvg: salary(130000)},
		{Country: "United States", TitleShort: "Data Engineer", SalaryYearAvg: salary(120000)},
		{Country: "Canada", TitleShort: "Data Analyst", SalaryYearAvg: salary(500000)}, // wrong country
	}

	dist := SalaryByTitle(ds, "United States", 10)

	// ascending by median value
	requireRows(t, dist.Medians, []models.Row{
		{Key: "Data Analyst", Value: 100000},
		{Key: "Data Engineer", Value: 125000},
	})

	if got := dist.Samples["Data Analyst"]; len(got) != 2 {
		t.Errorf("Data Analyst samples = %v, want the 2 non-null salaries", got)
	}
	if got := dist.Samples["Data Engineer"]; len(got) != 2 {
		t.Errorf("Data Engineer samples = %v, want 2 salaries", got)
	}
}

func TestSalaryByTitleScopesTopNToCountry(t *testing.T) {
	// Business Analyst dominates globally but has a single US posting;
	// top-1 within the US subset must still be Data Analyst.
	ds := models.Dataset{
		{Country: "India", TitleShort: "Business Analyst", SalaryYearAvg: salary(20000)},
		{Country: "India", TitleShort: "Business Analyst", SalaryYearAvg: salary(21000)},
		{Country: "India", TitleShort: "Business Analyst", SalaryYearAvg: salary(22000)},
		{Country: "United States", TitleShort: "Business Analyst", SalaryYearAvg: salary(85000)},
		{Country: "United States", TitleShort: "Data Analyst", SalaryYearAvg: salary(90000)},
		{Country: "United States", TitleShort: "Data Analyst", SalaryYearAvg: salary(95000)},
	}

	dist := SalaryByTitle(ds, "United States", 1)

	requireRows(t, dist.Medians, []models.Row{{Key: "Data Analyst", Value: 92500}})
	if _, ok := dist.Samples["Business Analyst"]; ok {
		t.Error("Business Analyst should not be in the top-1 samples")
	}
}

func TestSalaryByTitleAllSalariesNull(t *testing.T) {
	ds := models.Dataset{
		{Country: "United States", TitleShort: "Data Analyst"},
		{Country: "United States", TitleShort: "Data Analyst"},
	}

	dist := SalaryByTitle(ds, "United States", 10)

	// title ranks in the top N but has no median to report
	if !dist.Medians.Empty() {
		t.Errorf("expected no medians, got %+v", dist.Medians.Rows)
	}
	if got, ok := dist.Samples["Data Analyst"]; !ok || len(got) != 0 {
		t.Errorf("expected empty sample set for Data Analyst, got %v (present=%v)", got, ok)
	}
}

func TestSalaryByTitleEmptyDataset(t *testing.T) {
	dist := SalaryByTitle(nil, "United States", 10)
	if !dist.Medians.Empty() {
		t.Errorf("expected empty medians, got %+v", dist.Medians.Rows)
	}
	if len(dist.Samples) != 0 {
		t.Errorf("expected no samples, got %v", dist.Samples)
	}
}

func TestSalaryByTitleDoesNotMutateDataset(t *testing.T) {
	v := 90000.0
	ds := models.Dataset{
		{Country: "United States", TitleShort: "Data Analyst", SalaryYearAvg: &v},
	}

	SalaryByTitle(ds, "United States", 10)

	if ds[0].Country != "United States" || ds[0].TitleShort != "Data Analyst" || *ds[0].SalaryYearAvg != 90000 {
		t.Errorf("aggregation mutated the dataset: %+v", ds[0])
	}
}
