// Package profile holds the runtime configuration of a vecstore instance.
package profile

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is the configuration used to construct a vector store.
type Profile struct {
	// Mode is "prod", "dev" or "demo".
	Mode string

	// Driver is the backing store driver: "postgres" or "sqlite".
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	// Version is the build version.
	Version string

	// Embedding provider configuration (any OpenAI-compatible endpoint).
	EmbeddingModel      string
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingDimensions int

	// TextKey is the metadata key whose value becomes the page content of
	// search results. Empty disables the projection.
	TextKey string

	// DistanceStrategy selects the similarity metric: "cosine", "euclidean"
	// or "inner_product".
	DistanceStrategy string

	// OverwriteExistingTables drops and recreates the schema on construction.
	OverwriteExistingTables bool
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables. Values already set
// on the profile (e.g. from flags) take precedence.
func (p *Profile) FromEnv() {
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("VECSTORE_MODE", "dev")
	}
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("VECSTORE_DRIVER", "sqlite")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("VECSTORE_DSN")
	}

	p.EmbeddingModel = getEnvOrDefault("VECSTORE_EMBEDDING_MODEL", "BAAI/bge-m3")
	p.EmbeddingAPIKey = os.Getenv("VECSTORE_EMBEDDING_API_KEY")
	p.EmbeddingBaseURL = getEnvOrDefault("VECSTORE_EMBEDDING_BASE_URL", "https://api.siliconflow.cn/v1")
	p.EmbeddingDimensions = getEnvOrDefaultInt("VECSTORE_EMBEDDING_DIMENSIONS", 1024)

	p.TextKey = os.Getenv("VECSTORE_TEXT_KEY")
	p.DistanceStrategy = getEnvOrDefault("VECSTORE_DISTANCE_STRATEGY", "cosine")
	p.OverwriteExistingTables = getEnvOrDefault("VECSTORE_OVERWRITE_TABLES", "false") == "true"
}

// Validate checks that the profile can construct a working store.
func (p *Profile) Validate() error {
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver: %q", p.Driver)
	}
	if p.DSN == "" {
		return errors.New("dsn required")
	}
	if p.EmbeddingDimensions <= 0 {
		return errors.Errorf("embedding dimensions must be positive, got %d", p.EmbeddingDimensions)
	}
	switch p.DistanceStrategy {
	case "", "cosine", "euclidean", "l2", "inner_product", "ip":
	default:
		return errors.Errorf("unknown distance strategy: %q", p.DistanceStrategy)
	}
	return nil
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}
