package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Comma-separated token:user pairs accepted by the API, e.g.
	// "cpd_abc:user-1,cpd_def:user-2".
	APITokens string `envconfig:"API_TOKENS"`

	// Embedding backend: "hash" (deterministic, offline) or "openai"
	// (requires OPENAI_API_KEY).
	EmbeddingProvider string `envconfig:"EMBEDDING_PROVIDER" default:"hash"`

	// Embedding dimensions for either backend; must match the vector
	// column width in the chunks table.
	EmbeddingDimensions int `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	// Optional OpenAI key. When set, generation uses the live chat API;
	// without it the server refuses /generate but retrieval still works.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL"`

	// Optional S3-compatible storage for workspace backups.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"copydesk-backups"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("COPYDESK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
