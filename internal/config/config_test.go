package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, esperado 8080", cfg.Port)
	}
	if cfg.MacroBatchSize != 500 {
		t.Errorf("MacroBatchSize = %d, esperado 500", cfg.MacroBatchSize)
	}
	if cfg.MaxUploadBytes != 50*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, esperado 50MB", cfg.MaxUploadBytes)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MACRO_BATCH_SIZE", "100")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, esperado 9090", cfg.Port)
	}
	if cfg.MacroBatchSize != 100 {
		t.Errorf("MacroBatchSize = %d, esperado 100", cfg.MacroBatchSize)
	}
	if cfg.ConnMaxLifetime != time.Minute {
		t.Errorf("ConnMaxLifetime = %v, esperado 1m", cfg.ConnMaxLifetime)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"porta inválida", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"porta fora do intervalo", func(c *Config) { c.Port = "70000" }, "between 1 and 65535"},
		{"banco vazio", func(c *Config) { c.DatabasePath = "" }, "database path"},
		{"idle maior que open", func(c *Config) { c.MaxIdleConns = 20 }, "cannot be greater"},
		{"lote zero", func(c *Config) { c.MacroBatchSize = 0 }, "macro batch size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:            "8080",
				DatabasePath:    "./test.db",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Minute,
				MacroBatchSize:  500,
				MaxUploadBytes:  1024,
				RateLimitRPS:    100,
				RateLimitBurst:  200,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate aceitou configuração inválida")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("erro = %q, esperado conter %q", err.Error(), tt.want)
			}
		})
	}
}
