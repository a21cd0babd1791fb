package filestore

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"

	// ProviderMemory is a process-local store for tests and embedders that
	// hold a single Store for their whole lifetime. The colmap CLI refuses it.
	ProviderMemory Provider = "memory"
)

// Config holds all settings needed to connect to a file storage backend.
type Config struct {
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	AccessKey string
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string

	// DefaultBucket is the bucket column maps are archived to.
	DefaultBucket string
}

// DefaultConfig returns a sensible local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:      ProviderMinIO,
		Endpoint:      endpoint,
		AccessKey:     accessKey,
		SecretKey:     secretKey,
		UseSSL:        false,
		DefaultBucket: "colmap",
	}
}
