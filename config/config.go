package config

import (
	"fmt"
	"time"

	"github.com/zhandos-t/ridelink/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		ServiceName string `env:"SERVICE_NAME" default:"ridelink"`
		LogLevel    string `env:"LOG_LEVEL" default:"DEBUG"`

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		RabbitMQ RabbitMQConfig
		Identity IdentityConfig
		Auth     AuthConfig
		Presence PresenceConfig
	}

	ServerConfig struct {
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"ridelink_user"`
		Password string `env:"DATABASE_PASSWORD" default:"ridelink_pass"`
		Database string `env:"DATABASE_DATABASE" default:"ridelink_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RedisConfig struct {
		Host     string `env:"REDIS_HOST" default:"localhost"`
		Port     string `env:"REDIS_PORT" default:"6379"`
		Password string `env:"REDIS_PASSWORD" default:""`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	// IdentityConfig points at the external account provider.
	IdentityConfig struct {
		BaseURL    string `env:"IDENTITY_BASE_URL" default:"http://localhost:9999"`
		ServiceKey string `env:"IDENTITY_SERVICE_KEY" default:""`
	}

	AuthConfig struct {
		JWTSecret string `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	PresenceConfig struct {
		TTL time.Duration `env:"PRESENCE_TTL" default:"90s"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c RedisConfig) GetPassword() string {
	return c.Password
}

func (c RedisConfig) GetDB() int {
	return c.DB
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
