package analytics

import (
	"sort"
	"strings"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// TopSkillsPerRole ranks skills for each of the given normalized roles
// within one country. Skill lists are flattened into one (role, skill)
// observation per skill, counted per pair, and the top k skills per
// role are kept (count descending, first-seen tie-break).
//
// One table is returned per requested role, in the order the roles
// were given; a role absent from the data yields an empty table. Each
// table's rows are emitted smallest count first, the layout horizontal
// bar charts expect, so the row order is the reverse of the ranking.
func TopSkillsPerRole(ds models.Dataset, country string, roles []string, k int) []models.SummaryTable {
	wanted := make(map[string]bool, len(roles))
	for _, role := range roles {
		wanted[role] = true
	}

	perRole := make(map[string]*counter, len(roles))
	for _, rec := range ds {
		if rec.Country != country || !wanted[rec.TitleShort] {
			continue
		}
		c := perRole[rec.TitleShort]
		if c == nil {
			c = newCounter()
			perRole[rec.TitleShort] = c
		}
		for _, skill := range rec.Skills {
			c.add(skill)
		}
	}

	tables := make([]models.SummaryTable, 0, len(roles))
	for _, role := range roles {
		table := models.SummaryTable{Name: role}
		if c := perRole[role]; c != nil {
			top := c.top(k)
			for i := len(top) - 1; i >= 0; i-- {
				table.Rows = append(table.Rows, models.Row{
					Key:   top[i],
					Group: role,
					Value: float64(c.count(top[i])),
				})
			}
		}
		tables = append(tables, table)
	}
	return tables
}

// TopPayingSkills ranks skills by median yearly salary for postings in
// one country whose raw title contains titleSubstr (case-insensitive).
// Records missing either salary or skills contribute nothing. Skill
// names are normalized (trimmed, lower-cased) before grouping, so
// " SQL " and "sql" merge. Rows are ordered by median descending;
// equal medians keep first-seen order.
func TopPayingSkills(ds models.Dataset, country, titleSubstr string, k int) models.SummaryTable {
	needle := strings.ToLower(titleSubstr)

	salaries := make(map[string][]float64)
	var order []string
	for _, rec := range ds {
		if rec.Country != country {
			continue
		}
		if !strings.Contains(strings.ToLower(rec.Title), needle) {
			continue
		}
		if !rec.HasSalary() || len(rec.Skills) == 0 {
			continue
		}
		for _, skill := range rec.Skills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill == "" {
				continue
			}
			if _, ok := salaries[skill]; !ok {
				order = append(order, skill)
			}
			salaries[skill] = append(salaries[skill], *rec.SalaryYearAvg)
		}
	}

	medians := make(map[string]float64, len(order))
	for skill, values := range salaries {
		medians[skill] = median(values)
	}

	skills := append([]string(nil), order...)
	sort.SliceStable(skills, func(i, j int) bool {
		return medians[skills[i]] > medians[skills[j]]
	})
	if k >= 0 && len(skills) > k {
		skills = skills[:k]
	}

	table := models.SummaryTable{Name: "top_paying_skills"}
	for _, skill := range skills {
		table.Rows = append(table.Rows, models.Row{
			Key:   skill,
			Value: medians[skill],
		})
	}
	return table
}
