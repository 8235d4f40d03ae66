package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Token    TokenConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name string `env:"APP_NAME" envDefault:"MessMate"`
	URL  string `env:"APP_URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DATABASE_DSN" envDefault:"messmate.db"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	SecretKey    string        `env:"JWT_SECRET_KEY"`
	Issuer       string        `env:"JWT_ISSUER" envDefault:"messmate"`
	AccessExpiry time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	Algorithm    string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
}

type TokenConfig struct {
	// CodePrefix is prepended to every generated meal token code.
	CodePrefix string `env:"TOKEN_CODE_PREFIX" envDefault:"MT"`
	// CodeSuffixLength is the number of random characters appended to the
	// timestamp portion of a token code.
	CodeSuffixLength int `env:"TOKEN_CODE_SUFFIX_LENGTH" envDefault:"7"`
	// InsertRetries bounds how often issuance retries after a token code
	// collision. The per-user uniqueness constraint is never retried.
	InsertRetries int `env:"TOKEN_INSERT_RETRIES" envDefault:"3"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowHeaders []string `env:"CORS_ALLOW_HEADERS" envSeparator:"," envDefault:"Authorization,Content-Type"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
