package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	GeminiApiKey string
	Analysis     Analysis
	Claims       Claims
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Analysis holds tuning for the external analysis boundary.
type Analysis struct {
	TimeoutSeconds int
}

// Claims holds the lifetime policy for email-based pending claims.
type Claims struct {
	TTLHours int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, relying on environment variables")
		} else {
			return nil, err
		}
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ANALYSIS_TIMEOUT_SECONDS", 60)
	viper.SetDefault("CLAIM_TTL_HOURS", 72)

	cfg := &Config{
		Server: Server{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: Database{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		GeminiApiKey: viper.GetString("GEMINI_API_KEY"),
		Analysis: Analysis{
			TimeoutSeconds: viper.GetInt("ANALYSIS_TIMEOUT_SECONDS"),
		},
		Claims: Claims{
			TTLHours: viper.GetInt("CLAIM_TTL_HOURS"),
		},
	}
	return cfg, nil
}
