package config

import (
	"os"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Test server defaults
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}

	// Test database defaults
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Database.MigrationsPath != defaultMigrationsPath {
		t.Errorf("Database.MigrationsPath = %s, want %s", cfg.Database.MigrationsPath, defaultMigrationsPath)
	}
	if cfg.Database.EnableWAL != defaultDatabaseEnableWAL {
		t.Errorf("Database.EnableWAL = %v, want %v", cfg.Database.EnableWAL, defaultDatabaseEnableWAL)
	}

	// Test logging defaults
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}

	// Test scheduler defaults
	if cfg.Scheduler.TickInterval != defaultTickInterval {
		t.Errorf("Scheduler.TickInterval = %v, want %v", cfg.Scheduler.TickInterval, defaultTickInterval)
	}
	if cfg.Scheduler.Timezone != defaultTimezone {
		t.Errorf("Scheduler.Timezone = %s, want %s", cfg.Scheduler.Timezone, defaultTimezone)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Database: DatabaseConfig{
			Path:              "./data/retune.db",
			MigrationsPath:    defaultMigrationsPath,
			ConnectionTimeout: defaultDatabaseConnectionTimeout,
			EnableWAL:         true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Scheduler: SchedulerConfig{
			TickInterval: defaultTickInterval,
			Timezone:     "UTC",
		},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid server port (too low)",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid server port (too high)",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid tick interval",
			mutate:  func(c *Config) { c.Scheduler.TickInterval = 0 },
			wantErr: true,
		},
		{
			name:    "invalid timezone",
			mutate:  func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus_Mons" },
			wantErr: true,
		},
		{
			name:    "local timezone keyword",
			mutate:  func(c *Config) { c.Scheduler.Timezone = "Local" },
			wantErr: false,
		},
		{
			name:    "empty timezone falls back to local",
			mutate:  func(c *Config) { c.Scheduler.Timezone = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchedulerConfigEnvVars(t *testing.T) {
	_ = os.Setenv("RETUNE_SCHEDULER_TICKINTERVAL", "250ms")
	_ = os.Setenv("RETUNE_SCHEDULER_TIMEZONE", "America/New_York")
	defer func() {
		_ = os.Unsetenv("RETUNE_SCHEDULER_TICKINTERVAL")
		_ = os.Unsetenv("RETUNE_SCHEDULER_TIMEZONE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scheduler.TickInterval != 250*time.Millisecond {
		t.Errorf("Scheduler.TickInterval = %v, want 250ms", cfg.Scheduler.TickInterval)
	}
	if cfg.Scheduler.Timezone != "America/New_York" {
		t.Errorf("Scheduler.Timezone = %s, want America/New_York", cfg.Scheduler.Timezone)
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("Location() = %s, want America/New_York", loc)
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		item  string
		want  bool
	}{
		{
			name:  "item exists",
			slice: []string{"one", "two", "three"},
			item:  "two",
			want:  true,
		},
		{
			name:  "item does not exist",
			slice: []string{"one", "two", "three"},
			item:  "four",
			want:  false,
		},
		{
			name:  "empty slice",
			slice: []string{},
			item:  "one",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contains(tt.slice, tt.item)
			if got != tt.want {
				t.Errorf("contains() = %v, want %v", got, tt.want)
			}
		})
	}
}
