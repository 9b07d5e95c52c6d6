package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Configuration struct {
	StorageBackend     string
	DatabasePath       string
	LogFile            string
	ErrorFile          string
	LogLevel           string
	LogConsole         bool
	TokenLedgerAddress string
	TokenPoolAmount    int64
	OracleSeed         string
	OracleDelayMs      int
}

const (
	DefaultStorageBackend = "sqlite"
	DefaultDatabasePath   = "persistent.db"
	DefaultLogLevel       = "debug"
)

func Load() Configuration {

	if err := godotenv.Load(); err != nil {
		panic("no .env file found")
	}

	return Configuration{
		StorageBackend:     getString("STORAGE_BACKEND", DefaultStorageBackend),
		DatabasePath:       getString("DATABASE_PATH", DefaultDatabasePath),
		LogFile:            os.Getenv("LOG_FILE"),
		ErrorFile:          os.Getenv("ERROR_FILE"),
		LogLevel:           getString("LOG_LEVEL", DefaultLogLevel),
		LogConsole:         getBool("LOG_CONSOLE", true),
		TokenLedgerAddress: os.Getenv("TOKEN_LEDGER_ADDRESS"),
		TokenPoolAmount:    getInt64("TOKEN_POOL_AMOUNT", 0),
		OracleSeed:         os.Getenv("ORACLE_SEED"),
		OracleDelayMs:      int(getInt64("ORACLE_DELAY_MS", 0)),
	}
}

func getString(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func getInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}

	return parsed
}
