package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=simple_bank_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultStoreBackend = "postgres"
const defaultSQLitePath = "bank.db"
const defaultRedisAddr = "localhost:6379"
const defaultSeedAccountID = "12345"
const defaultSeedAccountBalance = "100.00"

type Config struct {
	DatabaseDSN        string
	MigrationsDir      string
	HTTPAddr           string
	StoreBackend       string
	SQLitePath         string
	RedisAddr          string
	SeedAccountID      string
	SeedAccountBalance decimal.Decimal
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if backend == "" {
		backend = defaultStoreBackend
	}
	switch backend {
	case "postgres", "sqlite", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND %q", backend)
	}

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = defaultSQLitePath
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		redisAddr = defaultRedisAddr
	}

	seedID := strings.TrimSpace(os.Getenv("SEED_ACCOUNT_ID"))
	if seedID == "" {
		seedID = defaultSeedAccountID
	}

	seedBalanceRaw := strings.TrimSpace(os.Getenv("SEED_ACCOUNT_BALANCE"))
	if seedBalanceRaw == "" {
		seedBalanceRaw = defaultSeedAccountBalance
	}
	seedBalance, err := decimal.NewFromString(seedBalanceRaw)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEED_ACCOUNT_BALANCE: %w", err)
	}
	if seedBalance.IsNegative() {
		return Config{}, fmt.Errorf("SEED_ACCOUNT_BALANCE cannot be negative")
	}

	return Config{
		DatabaseDSN:        normalizeConnectionString(conn),
		MigrationsDir:      filepath.Join("src", "migrations"),
		HTTPAddr:           httpAddr,
		StoreBackend:       backend,
		SQLitePath:         sqlitePath,
		RedisAddr:          redisAddr,
		SeedAccountID:      seedID,
		SeedAccountBalance: seedBalance,
	}, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
