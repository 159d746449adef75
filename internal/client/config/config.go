// Package config loads runtime settings for the TrailKeeper client.
package config

import "time"

// Config holds runtime settings for the TrailKeeper CLI.
//
// Fields:
//   - DatabaseDSN: path of the local SQLite store.
//   - SyncEnabled: whether repository writes enqueue outbound sync items.
//   - RemoteDSN: Postgres DSN of the remote store; empty disables sync.
//   - S3*: blob storage settings for photo/thumbnail uploads.
//   - ImportWriteDelay: pause between successive POI writes during import so
//     a large archive does not starve other work.
type Config struct {
	DatabaseDSN      string
	SyncEnabled      bool
	RemoteDSN        string
	S3Region         string
	S3Bucket         string
	S3BaseEndpoint   string
	S3AccessKey      string
	S3SecretKey      string
	ImportWriteDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "trailkeeper.db"
	c.SyncEnabled = false
	c.ImportWriteDelay = 150 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
