package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type Config struct {
	GinMode   string
	TZ        string
	Port      string
	LogLevel  string
	LogFormat string
	WebRoot   string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	LoanDays int
}

func Load() *Config {
	if getenv("GIN_MODE", "debug") == "debug" {
		envPath := getenv("ENV_FILE", ".env")
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("warning: could not load %s: %v", envPath, err)
		} else {
			log.Printf("loaded %s", envPath)
		}
	}

	cfg := &Config{
		GinMode:   getenv("GIN_MODE", "debug"),
		TZ:        getenv("TZ", "UTC"),
		Port:      getenv("PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
		WebRoot:   getenv("WEB_ROOT", ""),

		DBDriver:       getenv("DB_DRIVER", DriverPostgres),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPass:         getenv("DB_PASS", ""),
		DBName:         getenv("DB_NAME", "libmanage"),
		DBSSLMode:      os.Getenv("DB_SSLMODE"),
		SQLitePath:     getenv("SQLITE_PATH", "libmanage.db"),
		DBMaxOpenConns: getenvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getenvInt("DB_MAX_IDLE_CONNS", 5),

		LoanDays: getenvInt("LOAN_DAYS", 60),
	}

	if cfg.DBPort == "" {
		switch cfg.DBDriver {
		case DriverMySQL:
			cfg.DBPort = "3306"
		default:
			cfg.DBPort = "5432"
		}
	}

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	return cfg
}

// DSN renders the connection string understood by the gorm dialector for
// the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverSQLite:
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", c.SQLitePath)
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
			c.DBUser,
			c.DBPass,
			c.DBHost,
			c.DBPort,
			c.DBName,
		)
	default:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			c.DBHost,
			c.DBUser,
			c.DBPass,
			c.DBName,
			c.DBPort,
			c.DBSSLMode,
			c.TZ,
		)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
