package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatasetPath   string
	DatasetSource string

	TargetCountry    string
	TopTitlesN       int
	TargetRoles      []string
	SkillsPerRoleK   int
	SalaryTitlesN    int
	AnalystTitle     string
	TopPayingSkillsK int

	ChartsDir string

	ClickHouseEnabled      bool
	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	NATSEnabled     bool
	NATSURL         string
	NATSConnTimeout time.Duration

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OTLPCollectorURL string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		DatasetPath:   getEnvString("DATASET_PATH", "data_processed/data_jobs_cleaned.csv.br"),
		DatasetSource: getEnvString("DATASET_SOURCE", "file"),

		TargetCountry:    getEnvString("TARGET_COUNTRY", "United States"),
		TopTitlesN:       getEnvInt("TOP_TITLES_N", 10),
		TargetRoles:      getEnvStringSlice("TARGET_ROLES", []string{"Data Analyst", "Data Engineer", "Data Scientist"}),
		SkillsPerRoleK:   getEnvInt("SKILLS_PER_ROLE_K", 5),
		SalaryTitlesN:    getEnvInt("SALARY_TITLES_N", 10),
		AnalystTitle:     getEnvString("ANALYST_TITLE_MATCH", "data analyst"),
		TopPayingSkillsK: getEnvInt("TOP_PAYING_SKILLS_K", 10),

		ChartsDir: getEnvString("CHARTS_DIR", "images"),

		ClickHouseEnabled:      getEnvBool("CLICKHOUSE_ENABLED", false),
		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "datajobs"),

		NATSEnabled:     getEnvBool("NATS_ENABLED", false),
		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),

		OTLPCollectorURL: getEnvString("OTLP_COLLECTOR_URL", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
