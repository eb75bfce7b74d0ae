package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Store       string
	DataDir     string
	Resource    string
	Seed        int
	PageSize    int
	Pages       int
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() (*CLIConfig, bool) {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("FETCHKIT_CONFIG", ""),
		"Path to YAML configuration file (env: FETCHKIT_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FETCHKIT_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FETCHKIT_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FETCHKIT_LOG_FORMAT", "text"),
		"Log format: json, text (env: FETCHKIT_LOG_FORMAT)")

	flag.StringVar(&cfg.Store, "store",
		getEnv("FETCHKIT_STORE", "memory"),
		"Backend: memory or sqlite (env: FETCHKIT_STORE)")

	flag.StringVar(&cfg.DataDir, "data-dir",
		getEnv("FETCHKIT_DATA_DIR", "data"),
		"Data directory for the sqlite backend, or :memory: (env: FETCHKIT_DATA_DIR)")

	flag.StringVar(&cfg.Resource, "resource",
		getEnv("FETCHKIT_RESOURCE", "events"),
		"Resource to page through (env: FETCHKIT_RESOURCE)")

	flag.IntVar(&cfg.Seed, "seed",
		getEnvInt("FETCHKIT_SEED", 0),
		"Seed this many documents before paging, 0 to skip (env: FETCHKIT_SEED)")

	flag.IntVar(&cfg.PageSize, "page-size", 0,
		"Items per page; overrides the config file when set")

	flag.IntVar(&cfg.Pages, "pages", 0,
		"Stop after this many pages, 0 for all")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Parse()

	if cfg.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return cfg, true
	}
	if cfg.ShowHelp {
		flag.Usage()
		return cfg, true
	}
	return cfg, false
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
