package config

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds all configuration for the application
type Config struct {
	Port            int
	Env             string
	LogLevel        string
	Brand           string
	BrandName       string
	QRSize          int
	QRMargin        int
	DefaultColor    string
	Level           string
	Encoder         string
	InsetFraction   float64
	BorderWidth     int
	MaxLogoBytes    int64
	SessionCapacity int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// IsProduction reports whether the app runs with production logging and gin release mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load loads the configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "error loading .env file")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Brand:        getEnv("BRAND", "www.garimpodeofertas.com.br"),
		BrandName:    getEnv("BRAND_NAME", "Garimpo de Ofertas"),
		DefaultColor: getEnv("QR_DEFAULT_COLOR", "#0284c7"),
		Level:        strings.ToUpper(getEnv("QR_LEVEL", "Q")),
		Encoder:      strings.ToLower(getEnv("QR_ENCODER", "yeqown")),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.QRSize, err = getInt("QR_SIZE", 800); err != nil {
		return nil, err
	}
	if cfg.QRMargin, err = getInt("QR_MARGIN", 0); err != nil {
		return nil, err
	}
	if cfg.BorderWidth, err = getInt("LOGO_BORDER_WIDTH", 5); err != nil {
		return nil, err
	}
	if cfg.SessionCapacity, err = getInt("SESSION_CAPACITY", 1000); err != nil {
		return nil, err
	}
	maxLogo, err := getInt("MAX_LOGO_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxLogoBytes = int64(maxLogo)

	if cfg.InsetFraction, err = getFloat("LOGO_INSET_FRACTION", 0.3); err != nil {
		return nil, err
	}

	readTimeout, err := getInt("READ_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getInt("WRITE_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.ReadTimeout = time.Duration(readTimeout) * time.Second
	cfg.WriteTimeout = time.Duration(writeTimeout) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return errors.Errorf("PORT out of range: %d", c.Port)
	case c.QRSize <= 0:
		return errors.Errorf("QR_SIZE must be positive, got %d", c.QRSize)
	case c.QRMargin < 0:
		return errors.Errorf("QR_MARGIN must not be negative, got %d", c.QRMargin)
	case c.InsetFraction <= 0 || c.InsetFraction >= 1:
		return errors.Errorf("LOGO_INSET_FRACTION must be in (0, 1), got %v", c.InsetFraction)
	case c.BorderWidth < 0:
		return errors.Errorf("LOGO_BORDER_WIDTH must not be negative, got %d", c.BorderWidth)
	case c.MaxLogoBytes <= 0:
		return errors.Errorf("MAX_LOGO_BYTES must be positive, got %d", c.MaxLogoBytes)
	case c.SessionCapacity <= 0:
		return errors.Errorf("SESSION_CAPACITY must be positive, got %d", c.SessionCapacity)
	}
	switch c.Level {
	case "L", "M", "Q", "H":
	default:
		return errors.Errorf("QR_LEVEL must be one of L, M, Q, H, got %q", c.Level)
	}
	switch c.Encoder {
	case "yeqown", "skip2":
	default:
		return errors.Errorf("QR_ENCODER must be yeqown or skip2, got %q", c.Encoder)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: invalid number %q", key, value)
	}
	return f, nil
}
