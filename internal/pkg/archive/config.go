package archive

import (
	"errors"
	"strings"

	"github.com/ManuelReschke/TierPay/internal/pkg/env"
)

// Config holds the export archive configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Prefix          string
	Enabled         bool
}

// LoadConfig loads the archive configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "ap-northeast-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Prefix:          strings.Trim(env.GetEnv("EXPORT_ARCHIVE_PREFIX", "exports"), "/"),
		Enabled:         env.GetEnv("EXPORT_ARCHIVE_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the export archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the export archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the export archive is enabled")
		}
	}

	return config, nil
}

// ObjectKey returns the key of an archived export: <prefix>/<YYYYMM>/<filename>.
// Only digits of month are kept.
func (c *Config) ObjectKey(month, fileName string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, month)
	prefix := c.Prefix
	if prefix == "" {
		prefix = "exports"
	}
	return prefix + "/" + digits + "/" + fileName
}
