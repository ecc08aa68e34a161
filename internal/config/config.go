// Package config provides configuration loading for the source server.
package config

import (
	"os"
	"strconv"
)

// ServerConfig holds source server configuration.
type ServerConfig struct {
	// Server settings
	Port int
	Host string

	// DatabaseURL enables the Postgres credential store. Empty falls back
	// to the in-memory store (single-process deployments, tests).
	DatabaseURL string

	// UpstreamBaseURL overrides the Shortcut API host.
	UpstreamBaseURL string

	// Snapshot export settings. Export is enabled only when an endpoint
	// URL is configured.
	SnapshotEndpointURL     string
	SnapshotAccessKeyID     string
	SnapshotSecretAccessKey string
	SnapshotBucket          string
	SnapshotBasePrefix      string
	SnapshotRegion          string
	SnapshotUseSSL          bool
}

// LoadServerConfig loads configuration from environment.
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:                    getEnvInt("SOURCE_PORT", 8080),
		Host:                    getEnv("SOURCE_HOST", "0.0.0.0"),
		DatabaseURL:             getEnv("SOURCE_DATABASE_URL", ""),
		UpstreamBaseURL:         getEnv("SHORTCUT_API_URL", ""),
		SnapshotEndpointURL:     getEnv("SNAPSHOT_ENDPOINT_URL", ""),
		SnapshotAccessKeyID:     getEnv("SNAPSHOT_ACCESS_KEY_ID", ""),
		SnapshotSecretAccessKey: getEnv("SNAPSHOT_SECRET_ACCESS_KEY", ""),
		SnapshotBucket:          getEnv("SNAPSHOT_BUCKET", "report-snapshots"),
		SnapshotBasePrefix:      getEnv("SNAPSHOT_BASE_PREFIX", "reports"),
		SnapshotRegion:          getEnv("SNAPSHOT_REGION", ""),
		SnapshotUseSSL:          getEnvBool("SNAPSHOT_USE_SSL", false),
	}
}

// SnapshotEnabled reports whether snapshot export is configured.
func (c *ServerConfig) SnapshotEnabled() bool {
	return c.SnapshotEndpointURL != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
