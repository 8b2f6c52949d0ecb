package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Locale != "en" || cfg.OverpaymentPolicy != "discard" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_BASE_URL", "http://ledger.internal:9000")
	t.Setenv("LEDGER_TIMEOUT", "3s")
	t.Setenv("LOCALE", "es")
	t.Setenv("OVERPAYMENT_POLICY", "reject")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://ledger.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Locale != "es" || cfg.OverpaymentPolicy != "reject" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("LEDGER_TIMEOUT", "soon")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want fallback 10s", cfg.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.BaseURL = "ledger.internal" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"bad policy", func(c *Config) { c.OverpaymentPolicy = "refund" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				BaseURL:           "http://localhost:8080",
				Timeout:           10 * time.Second,
				OverpaymentPolicy: "discard",
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
