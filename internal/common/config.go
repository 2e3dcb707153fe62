package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Ollama   OllamaConfig
	Pipeline PipelineConfig
	Store    StoreConfig
}

// OllamaConfig holds inference-backend configuration
type OllamaConfig struct {
	Host        string
	Port        int
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds parse/categorize tuning
type PipelineConfig struct {
	BatchSize     int
	StatementYear int // year assumed for MM/DD dates; 0 = current year
	Pdftotext     string
}

// StoreConfig holds run-store configuration
type StoreConfig struct {
	Path string // sqlite database file; empty disables persistence
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			Host:        getEnv("OLLAMA_HOST", "localhost"),
			Port:        getEnvAsInt("OLLAMA_PORT", 11434),
			Model:       getEnv("OLLAMA_MODEL", "mistral"),
			Temperature: getEnvAsFloat32("OLLAMA_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			BatchSize:     getEnvAsInt("CATEGORIZER_BATCH_SIZE", 15),
			StatementYear: getEnvAsInt("STATEMENT_YEAR", 0),
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Store: StoreConfig{
			Path: getEnv("RUN_STORE_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Ollama.Host == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_HOST is required", ErrInvalidConfig)
	}
	if c.Ollama.Model == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_MODEL is required", ErrInvalidConfig)
	}
	if c.Pipeline.BatchSize <= 0 {
		return NewAppError("CONFIG_ERROR", "CATEGORIZER_BATCH_SIZE must be positive", ErrInvalidConfig)
	}
	return nil
}
