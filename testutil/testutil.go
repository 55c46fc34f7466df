package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/middleware"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"gorm.io/gorm"
)

// RequireTestEnvironmentOrSkip skips tests that create databases through config unless
// GO_ENV is "test", so they never touch a development or production store.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// OpenTestDB opens a private in-memory SQLite database and migrates tables.
// The pool is pinned to one connection so every query sees the same memory database.
func OpenTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(tables) > 0 {
		if err := db.AutoMigrate(tables...); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	}
	return db
}

// OpenLocalDB opens an in-memory copy of the on-device store
func OpenLocalDB(t *testing.T) *gorm.DB {
	t.Helper()
	return OpenTestDB(t, models.LocalModels()...)
}

// OpenBackendDB opens an in-memory copy of the developer backend store
func OpenBackendDB(t *testing.T) *gorm.DB {
	t.Helper()
	return OpenTestDB(t, models.BackendModels()...)
}

// Config returns a configuration suitable for tests, pointing every service at baseURL
func Config(baseURL string) *config.Config {
	return &config.Config{
		GoEnv:             "test",
		UserServiceURL:    baseURL,
		RequestServiceURL: baseURL,
		VehicleServiceURL: baseURL,
		ImageServiceURL:   baseURL,
		HTTPTimeout:       5 * time.Second,
		LocalDBPath:       ":memory:",
		JWTSecret:         "test-secret",
		JWTIssuer:         "fixsy-test",
		JWTAudience:       "fixsy-app",
	}
}

// BearerHeader returns an Authorization header value carrying a token for user
func BearerHeader(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	token, err := middleware.IssueToken(cfg, user)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}
