// Package config loads process settings from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Transports and backends understood by the server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Config holds the non-credential settings of the server process.
type Config struct {
	Transport string
	HTTPAddr  string
	Backend   string
	LogLevel  string
	LogFile   string
}

// FromEnv reads Config from the environment, applying defaults.
func FromEnv() Config {
	return Config{
		Transport: strings.ToLower(envOr("MCP_TRANSPORT", TransportStdio)),
		HTTPAddr:  envOr("MCP_HTTP_ADDR", ":3333"),
		Backend:   strings.ToLower(envOr("FIRESTORE_MCP_BACKEND", BackendFirestore)),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFile:   os.Getenv("LOG_FILE"),
	}
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if strings.TrimSpace(c.HTTPAddr) == "" {
			return fmt.Errorf("http transport requires an address")
		}
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	switch c.Backend {
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFirestore, BackendMemory)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
