package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.MinSupport != 0.01 {
		t.Errorf("Recommend.MinSupport = %v, want 0.01", cfg.Recommend.MinSupport)
	}
	if cfg.Recommend.MinLift != 1.0 {
		t.Errorf("Recommend.MinLift = %v, want 1.0", cfg.Recommend.MinLift)
	}
	if cfg.Recommend.MaxResults != 5 {
		t.Errorf("Recommend.MaxResults = %d, want 5", cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.FallbackLimit != 4 {
		t.Errorf("Recommend.FallbackLimit = %d, want 4", cfg.Recommend.FallbackLimit)
	}
	if cfg.Catalog.MostBoughtLimit != 4 {
		t.Errorf("Catalog.MostBoughtLimit = %d, want 4", cfg.Catalog.MostBoughtLimit)
	}
	if cfg.ClickHouse.Enabled() {
		t.Error("ClickHouse should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero support", func(c *Config) { c.Recommend.MinSupport = 0 }, true},
		{"support above one", func(c *Config) { c.Recommend.MinSupport = 1.5 }, true},
		{"support exactly one", func(c *Config) { c.Recommend.MinSupport = 1 }, false},
		{"negative lift", func(c *Config) { c.Recommend.MinLift = -0.1 }, true},
		{"negative max len", func(c *Config) { c.Recommend.MaxLen = -1 }, true},
		{"zero max results", func(c *Config) { c.Recommend.MaxResults = 0 }, true},
		{"zero fallback", func(c *Config) { c.Recommend.FallbackLimit = 0 }, true},
		{"zero most bought", func(c *Config) { c.Catalog.MostBoughtLimit = 0 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty database url", func(c *Config) { c.Database.URL = "" }, true},
		{"clickhouse without port", func(c *Config) {
			c.ClickHouse.Host = "localhost"
			c.ClickHouse.NativePort = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop?sslmode=disable")
	t.Setenv("RECOMMEND_MIN_SUPPORT", "0.2")
	t.Setenv("RECOMMEND_MIN_LIFT", "1.5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SHUTDOWN_TIMEOUT", "12s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/shop?sslmode=disable" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Recommend.MinSupport != 0.2 {
		t.Errorf("Recommend.MinSupport = %v, want 0.2", cfg.Recommend.MinSupport)
	}
	if cfg.Recommend.MinLift != 1.5 {
		t.Errorf("Recommend.MinLift = %v, want 1.5", cfg.Recommend.MinLift)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "http://b.test" {
		t.Errorf("CORS.Origins = %v, want two trimmed origins", cfg.CORS.Origins)
	}
	if cfg.Server.ShutdownTimeout != 12*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 12s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "shop.yaml")
	content := "recommend:\n  max_results: 3\n  max_len: 2\ncatalog:\n  most_bought_limit: 6\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.MaxResults != 3 {
		t.Errorf("Recommend.MaxResults = %d, want 3", cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.MaxLen != 2 {
		t.Errorf("Recommend.MaxLen = %d, want 2", cfg.Recommend.MaxLen)
	}
	if cfg.Catalog.MostBoughtLimit != 6 {
		t.Errorf("Catalog.MostBoughtLimit = %d, want 6", cfg.Catalog.MostBoughtLimit)
	}
	// untouched keys keep their defaults
	if cfg.Recommend.MinSupport != 0.01 {
		t.Errorf("Recommend.MinSupport = %v, want default 0.01", cfg.Recommend.MinSupport)
	}
}

func TestLoad_RejectsInvalidThreshold(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECOMMEND_MIN_SUPPORT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a zero min support")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DATABASE_URL", "database.url"},
		{"CLICKHOUSE_DB_NAME", "clickhouse.database"},
		{"AUTH_DEFAULT", "auth.api_key"},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
