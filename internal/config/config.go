package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	AutoMigrate bool

	JWTAccessSecret []byte

	Timezone string
}

// Load reads the optional env files and then the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: env file not loaded: %v, using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "dashboard"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: EnvBoolDefault("AUTO_MIGRATE", false),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		Timezone: EnvDefault("TIMEZONE", "UTC"),
	}
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required env DATABASE_URL")
	}
	if len(c.JWTAccessSecret) == 0 {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range", c.ServerPort)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
