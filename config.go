// config.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the process settings. Every field has a working default;
// the config file and command-line flags override them.
type Config struct {
	ListenAddr string `json:"listen_addr"` // TCP line transport
	WSAddr     string `json:"ws_addr"`     // websocket transport, empty disables it
	LogLevel   string `json:"log_level"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr: "127.0.0.1:8888",
		LogLevel:   "info",
	}
}

func loadConfig(file string) (Config, error) {
	cfg := defaultConfig()
	if file == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", file, err)
	}
	return cfg, nil
}
