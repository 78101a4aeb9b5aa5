package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "PG_DSN", "PIPELINE_RETRY_COUNT", "PIPELINE_RETRY_DELAY", "RANK_WEIGHT_BUDGET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Pipeline.RetryCount != 3 || cfg.Pipeline.RetryDelay != 30*time.Second {
		t.Errorf("retry = %d/%s, want 3/30s", cfg.Pipeline.RetryCount, cfg.Pipeline.RetryDelay)
	}
	if cfg.Ranking.WeightBudget != 0.6 {
		t.Errorf("WeightBudget = %v, want 0.6", cfg.Ranking.WeightBudget)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("PIPELINE_RETRY_COUNT", "5")
	t.Setenv("PIPELINE_RETRY_DELAY", "250ms")
	t.Setenv("PIPELINE_DEFAULT_LOCATION", "Austin")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("PG_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Pipeline.RetryCount != 5 || cfg.Pipeline.RetryDelay != 250*time.Millisecond {
		t.Errorf("retry = %d/%s", cfg.Pipeline.RetryCount, cfg.Pipeline.RetryDelay)
	}
	if cfg.Pipeline.DefaultLocation != "Austin" {
		t.Errorf("DefaultLocation = %q", cfg.Pipeline.DefaultLocation)
	}
	if cfg.Database.AutoMigrate {
		t.Error("AutoMigrate = true, want false")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("invalid port should fall back to 5432, got %d", cfg.Database.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported DB_DRIVER"},
		{"zero retries", func(c *Config) { c.Pipeline.RetryCount = 0 }, "PIPELINE_RETRY_COUNT"},
		{"negative weight", func(c *Config) { c.Ranking.WeightStyle = -1 }, "weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Driver: DriverSQLite},
				Pipeline: PipelineConfig{RetryCount: 1},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "vh", SSLMode: "disable"}}
	want := "host=db port=5433 user=u password=p dbname=vh sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("GetPostgreSQLDSN = %q, want %q", got, want)
	}

	cfg.Database.DSN = "postgres://x"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://x" {
		t.Errorf("DSN should win, got %q", got)
	}
}
