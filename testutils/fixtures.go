package testutils

import (
	"time"

	"github.com/messmate/messmate/config"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test Mess",
			URL:  "http://localhost:8080",
		},
		JWT: config.JWTConfig{
			SecretKey:    "test-secret-key-32-chars-long!!",
			Algorithm:    "HS256",
			AccessExpiry: 15 * time.Minute,
			Issuer:       "test-issuer",
		},
		Token: config.TokenConfig{
			CodePrefix:       "MT",
			CodeSuffixLength: 7,
			InsertRetries:    3,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
	}
}

var TestColleges = struct {
	Default string
	Other   string
}{
	Default: "Hilltop Engineering College",
	Other:   "Lakeside Arts College",
}
