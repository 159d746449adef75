package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/trailkeeper/internal/flagx"
	"github.com/dmitrijs2005/trailkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the import delay either as a string like
// "150ms" or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	SyncEnabled      *bool          `json:"sync_enabled"`
	RemoteDSN        string         `json:"remote_dsn"`
	S3Region         string         `json:"s3_region"`
	S3Bucket         string         `json:"s3_bucket"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	ImportWriteDelay timex.Duration `json:"import_write_delay"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Missing file path means no JSON is loaded. Read or
// unmarshal errors panic; LoadConfig runs before any I/O worth preserving.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SyncEnabled != nil {
		cfg.SyncEnabled = *jc.SyncEnabled
	}
	if jc.RemoteDSN != "" {
		cfg.RemoteDSN = jc.RemoteDSN
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.ImportWriteDelay.Duration != 0 {
		cfg.ImportWriteDelay = time.Duration(jc.ImportWriteDelay.Duration)
	}
}
