// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
)

type ServerConfig struct {
	Port string
}

func LoadServer() ServerConfig {
	return ServerConfig{
		Port: getEnv("PORT", "3000"),
	}
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func LoadDB() DBConfig {
	return DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "volunhub"),
		Password: getEnv("DB_PASSWORD", "volunhub"),
		Name:     getEnv("DB_NAME", "volunhub"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// DSN renders the config as a gorm/postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
