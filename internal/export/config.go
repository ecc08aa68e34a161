// Package export writes successful query results as Parquet snapshot
// objects to S3-compatible storage. Snapshots are write-only artifacts;
// queries never read them back.
package export

import (
	"errors"
)

// Config holds snapshot export configuration.
type Config struct {
	// EndpointURL is the S3-compatible endpoint (e.g. http://localhost:9000).
	EndpointURL string

	// AccessKeyID and SecretAccessKey authenticate against the object store.
	AccessKeyID     string
	SecretAccessKey string

	// Bucket receives all snapshot objects.
	Bucket string

	// BasePrefix is prepended to every object key.
	BasePrefix string

	// Region for bucket operations (optional).
	Region string

	// UseSSL forces TLS; https endpoint URLs enable it regardless.
	UseSSL bool
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is required")
	}
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	return nil
}
