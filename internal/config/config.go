package config

import (
	"os"
	"strconv"
	"time"
)

// GetEnv lê uma variável de ambiente, devolvendo defaultValue quando vazia
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration lê uma duração no formato de time.ParseDuration ("5s", "250ms").
// Valores inválidos caem no padrão.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetEnvInt lê um inteiro; valores inválidos caem no padrão
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
