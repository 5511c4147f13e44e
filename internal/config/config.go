package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	LogLevel       string
	DBType         string
	DBDSN          string
	SQLitePath     string
	FileProfile    string
	FileDays       string
	FileActivities string
	HTTPAddr       string
	APIToken       string
	Timezone       string
	DemoMode       bool

	location *time.Location
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		var err error
		cfg, err = FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

// FromEnv reads and validates the configuration without caching it.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/calories.db"),
		FileProfile:    getEnv("PROFILE_FILE", "data/profile.json"),
		FileDays:       getEnv("DAYS_FILE", "data/days.json"),
		FileActivities: getEnv("ACTIVITIES_FILE", "data/activities.json"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		APIToken:       getEnv("API_TOKEN", "MOCK-TOKEN"),
		Timezone:       getEnv("TIMEZONE", "Local"),
		DemoMode:       getBool("DEMO_MODE", false),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.FileProfile == "" || c.FileDays == "" || c.FileActivities == "" {
			return errors.New("File storage requires PROFILE_FILE, DAYS_FILE and ACTIVITIES_FILE to be set")
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, sqlite, postgres, memory (got %q)", c.DBType)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location is the zone used to decide which calendar day a timestamp is on.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
