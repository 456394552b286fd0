package config

import (
	"fmt"
	"os"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=hbsdb port=5432 sslmode=disable TimeZone=Asia/Manila"

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// GetEnv returns the value of key or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// StatsCacheTTL is how long rating stats stay in redis before they are recomputed.
func StatsCacheTTL() time.Duration {
	return GetEnvDuration("STATS_CACHE_TTL", 10*time.Minute)
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

const (
	TIME_ALLOWANCE_HOURS  = 4
	DEFAULT_GUEST_POINTS  = 300
	REFERENCE_NO_LENGTH   = 13
	DEFAULT_PAYMENT       = "gcash"
	DEFAULT_CURRENCY      = "PHP"
	REVIEW_COMMENT_MAXLEN = 200
)
