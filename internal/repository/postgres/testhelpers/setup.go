package testhelpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// TestDB is an open connection to a throwaway PostgreSQL database used by
// repository integration tests.
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the integration test database, retrying while it
// comes up, and applies every migration.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "location_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	var db *sqlx.DB
	var err error
	retryDelay := 500 * time.Millisecond
	for attempt := 0; attempt < 10; attempt++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		t.Logf("test database not ready (attempt %d/10): %v", attempt+1, err)
		time.Sleep(retryDelay)
		retryDelay *= 2
	}
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}

	migrationsPath := getEnv("TEST_MIGRATIONS_PATH", "../../../../migrations")
	if err := ApplyMigrations(db.DB, migrationsPath); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	logger, _ := zap.NewDevelopment()
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TestDB{DB: db, Logger: logger}
}

func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup truncates every table in FK-safe order so successive tests start
// from an empty schema.
func (tdb *TestDB) Cleanup() error {
	tables := []string{
		"office_deletion_flags",
		"banned_offices",
		"center_office",
		"offices",
		"companies",
		"refresh_state",
		"centers",
	}
	for _, table := range tables {
		if _, err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
