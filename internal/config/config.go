package config

import (
	"os"
	"strconv"
	"time"
)

// Config configuração do servidor
type Config struct {
	// Servidor
	Port string `json:"port"`

	// Banco de dados
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Classificação em lote
	MacroBatchSize int `json:"macro_batch_size"`

	// Upload
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	// Limite de requisições
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

// LoadConfig carrega a configuração das variáveis de ambiente
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:         getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./catalogo.db"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		MacroBatchSize: getEnvInt("MACRO_BATCH_SIZE", 500),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 50)) * 1024 * 1024,

		RateLimitRPS:   float64(getEnvInt("RATE_LIMIT_RPS", 100)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 200),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// getEnv obtém uma variável de ambiente ou o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt obtém uma variável de ambiente como int ou o valor padrão
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration obtém uma variável de ambiente como Duration ou o valor padrão
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
