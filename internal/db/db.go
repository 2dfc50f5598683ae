package db

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Config selects the backing database. DSNs starting with postgres:// or
// postgresql:// (or containing host=) open Postgres, anything else is treated
// as a SQLite file path or DSN.
type Config struct {
	DSN      string
	Schema   string // Postgres only
	LogLevel logger.LogLevel
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Connect opens the database and stores it in DB. A failure here is the only
// error that aborts startup.
func Connect(cfg Config) {
	conn, err := Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	DB = conn
	log.Println("Connected to database")
}

func Open(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	if IsPostgres(cfg.DSN) {
		return openPostgres(cfg, lg)
	}
	return openSQLite(cfg, lg)
}

func openPostgres(cfg Config, lg logger.Interface) (*gorm.DB, error) {
	dsn := cfg.DSN
	if cfg.Schema != "" {
		dsn = withSearchPath(dsn, cfg.Schema)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: lg})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.Schema != "" {
		if err := EnsureSchema(conn, cfg.Schema); err != nil {
			return nil, fmt.Errorf("ensure schema %s: %w", cfg.Schema, err)
		}
	}
	return conn, nil
}

// withSearchPath adds a search_path runtime parameter so every pooled
// connection resolves unqualified table names inside schema.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "search_path") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return dsn + " search_path=" + schema
}

func openSQLite(cfg Config, lg logger.Interface) (*gorm.DB, error) {
	dsn := cfg.DSN
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: lg})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// SQLite has a single writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return conn, nil
}
