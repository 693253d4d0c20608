// Package config handles configuration for the CipherDrop CLI, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Backend selects the blob store implementation.
const (
	BackendWebDAV = "webdav"
	BackendS3     = "s3"
)

// Config holds runtime settings.
//
// Fields:
//   - Backend: blob store flavor, "webdav" or "s3".
//   - WebDAVEndpoint / WebDAVUsername / WebDAVPassword: remote store access.
//     An empty endpoint makes every remote operation fail fast as
//     not-configured, without a network attempt.
//   - PublicBaseURL: public prefix embedded in share links.
//   - IndexDSN: SQLite path of the local share index.
//   - DefaultTTL: share lifetime when the caller doesn't pick one.
//   - S3*: settings for the S3-compatible backend (MinIO works).
type Config struct {
	Backend string

	WebDAVEndpoint string
	WebDAVUsername string
	WebDAVPassword string

	PublicBaseURL string
	IndexDSN      string
	DefaultTTL    time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults. The remote endpoint has
// no default on purpose: an unconfigured store must be distinguishable.
func (c *Config) LoadDefaults() {
	c.Backend = BackendWebDAV
	c.PublicBaseURL = "https://localhost"
	c.IndexDSN = "cipherdrop.db"
	c.DefaultTTL = 24 * time.Hour
	c.S3Bucket = "cipherdrop"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
