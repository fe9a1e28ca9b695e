package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Draw     DrawConfig
	Notify   NotifyConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// DrawConfig holds draw-engine configuration
type DrawConfig struct {
	// ScoreRangeMin/Max bound the scores counted toward the frequency
	// distribution; Stableford totals outside the band are noise.
	ScoreRangeMin int
	ScoreRangeMax int
	// TestAccountEmail names the one admin account allowed into draws
	// on staging environments.
	TestAccountEmail string
}

// NotifyConfig holds winner-notification gateway configuration
type NotifyConfig struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	MockGateway bool
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "birdieplay")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Draw.ScoreRangeMin", 10)
	viper.SetDefault("Draw.ScoreRangeMax", 50)
	viper.SetDefault("Draw.TestAccountEmail", "")
	viper.SetDefault("Notify.MockGateway", true)
}
