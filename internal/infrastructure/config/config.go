package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	ImageStore ImageStoreConfig
	Email      EmailConfig
	SMS        SMSConfig

	// NotifyWorkers is the size of the notification fan-out pool.
	NotifyWorkers int `env:"NOTIFY_WORKERS, default=8"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=community_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ImageStoreConfig struct {
	BaseURL string `env:"IMAGE_STORE_URL"`
	APIKey  string `env:"IMAGE_STORE_API_KEY"`
}

type EmailConfig struct {
	BaseURL    string `env:"EMAIL_API_URL"`
	APIKey     string `env:"EMAIL_API_KEY"`
	From       string `env:"EMAIL_FROM,  default=noreply@resihub.local"`
	AdminInbox string `env:"ADMIN_INBOX"`
}

type SMSConfig struct {
	BaseURL string `env:"SMS_API_URL"`
	APIKey  string `env:"SMS_API_KEY"`
	Sender  string `env:"SMS_SENDER, default=RESIHUB"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
