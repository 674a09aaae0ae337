package config

import (
	"github.com/spf13/viper"
)

// Config holds every environment-driven setting the service reads.
type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	// Hosted relational provider (Postgres connection of the managed instance)
	PGHost     string `mapstructure:"PG_HOST"`
	PGPort     string `mapstructure:"PG_PORT"`
	PGUser     string `mapstructure:"PG_USER"`
	PGPassword string `mapstructure:"PG_PASSWORD"`
	PGDatabase string `mapstructure:"PG_DB"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// External engagement backend (TikTok accounts, videos, leaderboard)
	EngagementBaseURL string `mapstructure:"ENGAGEMENT_API_BASE_URL"`
	EngagementAPIKey  string `mapstructure:"ENGAGEMENT_API_KEY"`

	// Auth provider JWT secret used to validate bearer tokens
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Media bucket (S3-compatible)
	StorageEndpoint  string `mapstructure:"STORAGE_ENDPOINT"`
	StorageRegion    string `mapstructure:"STORAGE_REGION"`
	StorageAccessKey string `mapstructure:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `mapstructure:"STORAGE_SECRET_KEY"`
	StorageBucket    string `mapstructure:"STORAGE_BUCKET"`
	CDNBaseURL       string `mapstructure:"CDN_BASE_URL"`
}

// Load reads config.env from the working directory, falling back to plain
// environment variables for anything not present in the file.
func Load() (Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; the environment still applies.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PG_HOST", "localhost")
	viper.SetDefault("PG_PORT", "5432")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("ENGAGEMENT_API_BASE_URL", "https://api.crown-contests.io/api/v1")
	viper.SetDefault("STORAGE_REGION", "auto")
}
