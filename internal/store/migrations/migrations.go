package migrations

import "github.com/oliviakdata/data-jobs-postings/internal/store"

var CreatePostingsTable = store.Migration{
	Version:     1,
	Description: "Create postings table",
	Up: `
		CREATE TABLE IF NOT EXISTS postings (
			country String,
			posted_at Nullable(DateTime),
			title String,
			title_short String,
			skills Array(String),
			salary_year_avg Nullable(Float64),
			loaded_at DateTime
		) ENGINE = MergeTree()
		PARTITION BY country
		ORDER BY (country, title_short)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS postings`,
}

var CreateSummaryRowsTable = store.Migration{
	Version:     2,
	Description: "Create summary_rows table",
	Up: `
		CREATE TABLE IF NOT EXISTS summary_rows (
			run_id UUID,
			summary String,
			position UInt32,
			key String,
			group_key String,
			value Float64,
			created_at DateTime
		) ENGINE = MergeTree()
		ORDER BY (run_id, summary, position)
	`,
	Down: `DROP TABLE IF EXISTS summary_rows`,
}

// All lists migrations in apply order.
var All = []store.Migration{
	CreatePostingsTable,
	CreateSummaryRowsTable,
}
