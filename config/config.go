// Package config loads startup configuration from the environment. Outside
// production a .env file is read first; every required value missing at
// startup is a hard failure so misconfiguration surfaces immediately instead
// of mid-request.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	EnvAppEnv              = "APP_ENV"
	EnvHost                = "POSTWRIGHT_HOST"
	EnvPort                = "POSTWRIGHT_PORT"
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
	EnvAnthropicAPIKey     = "ANTHROPIC_API_KEY"
	EnvModelProvider       = "POSTWRIGHT_MODEL_PROVIDER"
	EnvModel               = "POSTWRIGHT_MODEL"
	EnvImageModel          = "POSTWRIGHT_IMAGE_MODEL"
	EnvCloudinaryCloudName = "CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "CLOUDINARY_API_SECRET"
	EnvCloudinaryFolder    = "CLOUDINARY_FOLDER"
	EnvLogLevel            = "POSTWRIGHT_LOG_LEVEL"
	EnvLogFormat           = "POSTWRIGHT_LOG_FORMAT"
)

// Config holds all startup configuration.
type Config struct {
	AppEnv string

	Host string
	Port int

	ModelProvider string // "openai" or "anthropic"
	Model         string
	ImageModel    string

	OpenAIAPIKey    string
	AnthropicAPIKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	LogLevel  string
	LogFormat string
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// Load reads configuration from the environment. In non-production
// environments a .env file at dotenvPath (default ".env") is loaded first
// when present. Missing required values produce a single aggregated error.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	if os.Getenv(EnvAppEnv) != "production" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvModelProvider, "openai")
	v.SetDefault(EnvModel, "gpt-4o-mini")
	v.SetDefault(EnvImageModel, "dall-e-3")
	v.SetDefault(EnvCloudinaryFolder, "linkedin")
	v.SetDefault(EnvLogLevel, "info")
	v.SetDefault(EnvLogFormat, "json")

	cfg := &Config{
		AppEnv:              v.GetString(EnvAppEnv),
		Host:                v.GetString(EnvHost),
		Port:                v.GetInt(EnvPort),
		ModelProvider:       v.GetString(EnvModelProvider),
		Model:               v.GetString(EnvModel),
		ImageModel:          v.GetString(EnvImageModel),
		OpenAIAPIKey:        v.GetString(EnvOpenAIAPIKey),
		AnthropicAPIKey:     v.GetString(EnvAnthropicAPIKey),
		CloudinaryCloudName: v.GetString(EnvCloudinaryCloudName),
		CloudinaryAPIKey:    v.GetString(EnvCloudinaryAPIKey),
		CloudinaryAPISecret: v.GetString(EnvCloudinaryAPISecret),
		CloudinaryFolder:    v.GetString(EnvCloudinaryFolder),
		LogLevel:            v.GetString(EnvLogLevel),
		LogFormat:           v.GetString(EnvLogFormat),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate enforces the required-at-startup contract.
func (c *Config) validate() error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require(EnvHost, c.Host)
	if c.Port == 0 {
		missing = append(missing, EnvPort)
	}
	require(EnvCloudinaryCloudName, c.CloudinaryCloudName)
	require(EnvCloudinaryAPIKey, c.CloudinaryAPIKey)
	require(EnvCloudinaryAPISecret, c.CloudinaryAPISecret)

	switch c.ModelProvider {
	case "openai":
		require(EnvOpenAIAPIKey, c.OpenAIAPIKey)
	case "anthropic":
		require(EnvAnthropicAPIKey, c.AnthropicAPIKey)
		// The image tool always goes through the OpenAI Images API.
		require(EnvOpenAIAPIKey, c.OpenAIAPIKey)
	default:
		return fmt.Errorf("unsupported model provider %q", c.ModelProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"required environment variables are not set: %s (provide them in a .env file for development or as system environment variables)",
			strings.Join(missing, ", "),
		)
	}
	return nil
}
