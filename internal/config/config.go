// Package config handles application configuration from a YAML file, .env
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Port     string `yaml:"port" validate:"required,numeric"`
	Env      string `yaml:"env" validate:"oneof=development production test"`
	LogLevel string `yaml:"logLevel" validate:"oneof=debug info warn error"`

	UserAgent string `yaml:"userAgent" validate:"required"`

	JCDecauxAPIKey   string `yaml:"jcdecauxAPIKey" validate:"required"`
	JCDecauxBaseURL  string `yaml:"jcdecauxBaseURL" validate:"required,url"`
	ResolveContracts bool   `yaml:"resolveContracts"`

	ORSAPIKey   string `yaml:"orsAPIKey" validate:"required"`
	ORSBaseURL  string `yaml:"orsBaseURL" validate:"required,url"`
	ORSLanguage string `yaml:"orsLanguage"`

	NominatimBaseURL      string  `yaml:"nominatimBaseURL" validate:"required,url"`
	NominatimCountryCodes string  `yaml:"nominatimCountryCodes"`
	GeocodeRatePerSecond  float64 `yaml:"geocodeRatePerSecond" validate:"gt=0"`

	StationCacheTTL  time.Duration `yaml:"stationCacheTTL" validate:"gt=0"`
	ContractCacheTTL time.Duration `yaml:"contractCacheTTL" validate:"gt=0"`
	HTTPTimeout      time.Duration `yaml:"httpTimeout" validate:"gt=0"`
	RequestTimeout   time.Duration `yaml:"requestTimeout" validate:"gt=0"`

	StaticDir          string   `yaml:"staticDir"`
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:                 "8080",
		Env:                  "development",
		LogLevel:             "info",
		UserAgent:            "LetsGoBiking/1.0",
		JCDecauxBaseURL:      "https://api.jcdecaux.com/vls/v1",
		ResolveContracts:     true,
		ORSBaseURL:           "https://api.openrouteservice.org",
		ORSLanguage:          "en",
		NominatimBaseURL:     "https://nominatim.openstreetmap.org",
		GeocodeRatePerSecond: 1,
		StationCacheTTL:      5 * time.Minute,
		ContractCacheTTL:     24 * time.Hour,
		HTTPTimeout:          10 * time.Second,
		RequestTimeout:       30 * time.Second,
		CORSAllowedOrigins:   []string{"*"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then .env, then the process environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)

	c.JCDecauxAPIKey = getEnv("JCDECAUX_API_KEY", c.JCDecauxAPIKey)
	c.JCDecauxBaseURL = getEnv("JCDECAUX_BASE_URL", c.JCDecauxBaseURL)
	c.ResolveContracts = getBoolEnv("JCDECAUX_RESOLVE_CONTRACTS", c.ResolveContracts)

	c.ORSAPIKey = getEnv("ORS_API_KEY", c.ORSAPIKey)
	c.ORSBaseURL = getEnv("ORS_BASE_URL", c.ORSBaseURL)
	c.ORSLanguage = getEnv("ORS_LANGUAGE", c.ORSLanguage)

	c.NominatimBaseURL = getEnv("NOMINATIM_BASE_URL", c.NominatimBaseURL)
	c.NominatimCountryCodes = getEnv("NOMINATIM_COUNTRY_CODES", c.NominatimCountryCodes)
	c.GeocodeRatePerSecond = getFloatEnv("GEOCODE_RATE_PER_SECOND", c.GeocodeRatePerSecond)

	c.StationCacheTTL = getDurationEnv("STATION_CACHE_TTL_SECONDS", c.StationCacheTTL)
	c.ContractCacheTTL = getDurationEnv("CONTRACT_CACHE_TTL_SECONDS", c.ContractCacheTTL)
	c.HTTPTimeout = getDurationEnv("HTTP_TIMEOUT_SECONDS", c.HTTPTimeout)
	c.RequestTimeout = getDurationEnv("REQUEST_TIMEOUT_SECONDS", c.RequestTimeout)

	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
