// Package config provides centralized configuration management for the
// delivery tracker. It loads configuration from several sources, validates
// it, and owns the on-disk layout of every artifact the tools produce.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DELIVERY_<SECTION>_<FIELD>:
//
//	DELIVERY_ARCHIVE_MIRRORS=https://a.example/mto,https://b.example/mto
//	DELIVERY_ARCHIVE_ATTEMPTS=4
//	DELIVERY_ARCHIVE_RETRY_DELAY=1s
//	DELIVERY_RANKING_TOP_N=10
//	DELIVERY_PATHS_DATA_DIR=/var/lib/delivery
//	DELIVERY_LOGGING_LEVEL=debug
//
// DELIVERY_CONFIG_FILE points at an explicit YAML file; otherwise
// config.yaml and configs/config.yaml are probed.
//
// # Path Management
//
// Paths is the single source of truth for artifact locations:
//
//	paths := config.NewPaths(baseDir, cfg.Paths)
//	raw := paths.RawReportPath(date)     // data/raw/MTO_2025-10-17.DAT
//	clean := paths.CleanCSVPath(date)    // data/clean/delivery_2025-10-17.csv
//	top := paths.RankingCSVPath(date)    // data/output/top10_2025-10-17.csv
//
// # Testing
//
// Use Default() for a configuration that needs no environment, and
// NewPaths(t.TempDir(), ...) for an isolated artifact tree.
package config
