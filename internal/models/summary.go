package models

import (
	"encoding/json"
)

// Row is one (key, value) pair of a summary. Group carries the role
// tag for the multi-role skill breakdown and is empty otherwise.
type Row struct {
	Key   string  `json:"key"`
	Group string  `json:"group,omitempty"`
	Value float64 `json:"value"`
}

// SummaryTable is the ordered aggregate output handed to chart
// rendering. Row order is part of the contract: each aggregation
// documents its sort rule and the renderer relies on it.
type SummaryTable struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t SummaryTable) Empty() bool {
	return len(t.Rows) == 0
}

func (t SummaryTable) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *SummaryTable) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

// SalaryDistribution is the output of the salary-by-title aggregation.
// Medians is ordered ascending by median salary; Samples holds the
// unaggregated non-null salaries per title, keyed by the same titles
// that appear in Medians, for distribution (box plot) rendering.
type SalaryDistribution struct {
	Medians SummaryTable         `json:"medians"`
	Samples map[string][]float64 `json:"samples"`
}

func (d SalaryDistribution) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *SalaryDistribution) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
