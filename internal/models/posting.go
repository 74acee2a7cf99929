package models

import (
	"time"
)

// PostingRecord is one job posting from the cleaned snapshot.
// A zero PostedAt means the posting date is missing; nil Skills and
// nil SalaryYearAvg mean those fields are missing. Aggregations skip
// missing fields, they never treat them as zero.
type PostingRecord struct {
	Country       string
	PostedAt      time.Time
	Title         string
	TitleShort    string
	Skills        []string
	SalaryYearAvg *float64
}

// HasPostedDate reports whether the posting carries a usable date.
func (r PostingRecord) HasPostedDate() bool {
	return !r.PostedAt.IsZero()
}

// HasSalary reports whether the posting carries a yearly salary estimate.
func (r PostingRecord) HasSalary() bool {
	return r.SalaryYearAvg != nil
}

// Dataset is the in-memory collection of postings. It is treated as
// immutable for the lifetime of a run; aggregations only build
// filtered views over it.
type Dataset []PostingRecord

// FilterCountry returns the postings whose country matches exactly.
func (ds Dataset) FilterCountry(country string) Dataset {
	var out Dataset
	for _, rec := range ds {
		if rec.Country == country {
			out = append(out, rec)
		}
	}
	return out
}
