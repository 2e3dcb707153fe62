package ollama

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config for the Ollama client.
type Config struct {
	Host        string        // default "localhost"
	Port        int           // default 11434
	Model       string        // e.g., "mistral"
	Temperature float32       // sampling temperature, default 0.1
	Timeout     time.Duration // http client timeout
	NumPredict  int           // max tokens to generate; default 4096
	NumCtx      int           // context window; default 16384
}

// Client talks to a local Ollama server's /api/generate endpoint with
// schema-constrained output (the "format" field).
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port <= 0 {
		cfg.Port = 11434
	}
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.NumPredict <= 0 {
		cfg.NumPredict = 4096
	}
	if cfg.NumCtx <= 0 {
		cfg.NumCtx = 16384
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		baseURL: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}
