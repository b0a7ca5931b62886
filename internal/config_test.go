package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/synapsemed/synapse/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if !cfg.Catalog.Embedded() {
		t.Error("default config should serve the embedded catalog")
	}
}

func TestCatalogConfig_EmptyDriverDefaultsMemory(t *testing.T) {
	cfg := CatalogConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default to memory: %v", err)
	}
	if cfg.Driver != DriverMemory {
		t.Errorf("driver = %q, want %q", cfg.Driver, DriverMemory)
	}
}

func TestCatalogConfig_InvalidDriver(t *testing.T) {
	cfg := CatalogConfig{Driver: "postgres"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestCatalogConfig_SQLiteNeedsPath(t *testing.T) {
	cfg := CatalogConfig{Driver: DriverSQLite}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("sqlite driver without path should fail")
	}
	if !strings.Contains(err.Error(), "sqlite_path is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail")
	}
}

func TestEventsConfig_NegativeThrottle(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Events.Throttle = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative throttle should fail")
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Setenv("SYNAPSE_TEST_PORT", "9091")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `app:
  log_level: debug
  http:
    port: ${SYNAPSE_TEST_PORT}
catalog:
  driver: sqlite
  dir: ./catalog
  sqlite_path: ./test.db
  watch: true
events:
  throttle: 500ms
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9091 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %s", cfg.App.LogLevel)
	}
	if cfg.Catalog.Driver != DriverSQLite || !cfg.Catalog.Watch || cfg.Catalog.Embedded() {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Events.Throttle != 500*time.Millisecond {
		t.Errorf("throttle = %s", cfg.Events.Throttle)
	}
}
