package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string // sheet | csv | postgres

	SheetID           string
	SheetRange        string
	GoogleCredentials string

	CSVInputPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxRetries      int
	CacheTTLSeconds int

	ExportDir     string
	TargetFlyRate int

	// Filter settings for one analysis pass.
	TripType     string // all | shell | non-shell
	Markets      string // comma-separated; empty = no market filter
	DateFrom     string // YYYY-MM-DD; empty = unbounded
	DateTo       string
	MinFollowers int
	MaxFollowers int // -1 = unbounded
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: getEnv("DATA_SOURCE", "csv"),

		SheetID:           getEnv("SHEET_ID", ""),
		SheetRange:        getEnv("SHEET_RANGE", "Sheet1"),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", "./service_account.json"),

		CSVInputPath: getEnv("CSV_INPUT_PATH", "./data/trips.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analyst"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analyst123"),
		PostgresDB:       getEnv("POSTGRES_DB", "trips_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 600),

		ExportDir:     getEnv("EXPORT_DIR", "./output/cohorts"),
		TargetFlyRate: getEnvInt("TARGET_FLY_RATE", 25),

		TripType:     getEnv("TRIP_TYPE", "all"),
		Markets:      getEnv("MARKETS", ""),
		DateFrom:     getEnv("DATE_FROM", ""),
		DateTo:       getEnv("DATE_TO", ""),
		MinFollowers: getEnvInt("MIN_FOLLOWERS", 0),
		MaxFollowers: getEnvInt("MAX_FOLLOWERS", -1),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
