package config

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.example.com",
			Timeout: 30 * time.Second,
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxUploadSize:    10 * 1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorHas string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing base URL",
			mutate:   func(c *Config) { c.API.BaseURL = "" },
			errorHas: "base URL is required",
		},
		{
			name:     "malformed base URL",
			mutate:   func(c *Config) { c.API.BaseURL = "://bad" },
			errorHas: "not a valid URL",
		},
		{
			name:     "non-positive timeout",
			mutate:   func(c *Config) { c.API.Timeout = 0 },
			errorHas: "timeout must be positive",
		},
		{
			name:     "non-positive upload limit",
			mutate:   func(c *Config) { c.App.MaxUploadSize = 0 },
			errorHas: "max upload size must be positive",
		},
		{
			name:     "default format not in supported list",
			mutate:   func(c *Config) { c.App.DefaultFormat = "yaml" },
			errorHas: "invalid default format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorHas == "" {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errorHas) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.errorHas)
			}
		})
	}
}

func TestOperationDefaults(t *testing.T) {
	cfg := validTestConfig()

	upload := cfg.GetUploadConfig()
	if upload.Timeout == nil || *upload.Timeout != cfg.API.Timeout {
		t.Error("unset operation timeout should fall back to the global timeout")
	}
	if upload.MaxRetries == nil || *upload.MaxRetries != 2 {
		t.Error("unset max retries should default to 2")
	}

	custom := 90 * time.Second
	retries := 5
	cfg.API.Generate.Timeout = &custom
	cfg.API.Generate.MaxRetries = &retries

	generate := cfg.GetGenerateConfig()
	if *generate.Timeout != custom {
		t.Errorf("generate timeout = %v, want %v", *generate.Timeout, custom)
	}
	if *generate.MaxRetries != retries {
		t.Errorf("generate retries = %d, want %d", *generate.MaxRetries, retries)
	}
}

func TestPrepConfigShared(t *testing.T) {
	cfg := validTestConfig()
	custom := 2 * time.Minute
	cfg.API.Prep.Timeout = &custom

	prep := cfg.GetPrepConfig()
	if *prep.Timeout != custom {
		t.Errorf("prep timeout = %v, want %v", *prep.Timeout, custom)
	}
}
