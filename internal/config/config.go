package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress string
	Database      DatabaseConfig
	JWT           JWTConfig
	WebhookAPIKey string
}

type DatabaseConfig struct {
	// Path of the SQLite file, used when Host is empty
	Path string

	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type JWTConfig struct {
	Secret   string
	Lifetime time.Duration
	Issuer   string
}

// Load reads the configuration from the environment, with an optional
// .env file as fallback.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// The .env file is optional
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("DB_PATH", "data/gorm.db")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("JWT_LIFETIME", "24h")
	viper.SetDefault("JWT_ISSUER", "amaken-backend")

	config := &Config{
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		Database: DatabaseConfig{
			Path:     viper.GetString("DB_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		JWT: JWTConfig{
			Secret:   viper.GetString("JWT_SECRET"),
			Lifetime: viper.GetDuration("JWT_LIFETIME"),
			Issuer:   viper.GetString("JWT_ISSUER"),
		},
		WebhookAPIKey: viper.GetString("WEBHOOK_API_KEY"),
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return config, nil
}

// PostgresDSN returns the DSN for the PostgreSQL driver. Only valid when
// Host is set.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
