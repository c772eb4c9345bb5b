package storage

import "time"

const (
	ProviderMinio = "minio"
	ProviderS3    = "s3"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Provider selects the backend implementation (minio, s3).
	Provider string `mapstructure:"provider" default:"minio"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region is the location of the buckets (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PresignTTLSeconds is how long generated download links stay valid.
	PresignTTLSeconds int `mapstructure:"presign_ttl_seconds" default:"300"`
	// UploadConcurrency caps parallel uploads within one batch.
	UploadConcurrency int `mapstructure:"upload_concurrency" default:"4"`
}

// PresignTTL returns the configured download link lifetime, falling back to DefaultPresignTTL.
func (c Config) PresignTTL() time.Duration {
	if c.PresignTTLSeconds <= 0 {
		return DefaultPresignTTL
	}
	return time.Duration(c.PresignTTLSeconds) * time.Second
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
