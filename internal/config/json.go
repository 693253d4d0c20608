package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/okorolev/cipherdrop/internal/flagx"
	"github.com/okorolev/cipherdrop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the TTL can be written as "24h" or integer nanoseconds.
// Only non-zero fields overlay the runtime Config.
type JsonConfig struct {
	Backend        string         `json:"backend"`
	WebDAVEndpoint string         `json:"webdav_endpoint"`
	WebDAVUsername string         `json:"webdav_username"`
	WebDAVPassword string         `json:"webdav_password"`
	PublicBaseURL  string         `json:"public_base_url"`
	IndexDSN       string         `json:"index_dsn"`
	DefaultTTL     timex.Duration `json:"default_ttl"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. No flag, no overlay. Read or unmarshal errors panic;
// a broken config file should stop the program before any network call.
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

	if jc.Backend != "" {
		cfg.Backend = jc.Backend
	}
	if jc.WebDAVEndpoint != "" {
		cfg.WebDAVEndpoint = jc.WebDAVEndpoint
	}
	if jc.WebDAVUsername != "" {
		cfg.WebDAVUsername = jc.WebDAVUsername
	}
	if jc.WebDAVPassword != "" {
		cfg.WebDAVPassword = jc.WebDAVPassword
	}
	if jc.PublicBaseURL != "" {
		cfg.PublicBaseURL = jc.PublicBaseURL
	}
	if jc.IndexDSN != "" {
		cfg.IndexDSN = jc.IndexDSN
	}
	if jc.DefaultTTL.Duration != 0 {
		cfg.DefaultTTL = time.Duration(jc.DefaultTTL.Duration)
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
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
}
