package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const prefix = "ORDERFORM_"

type Config struct {
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	FormBaseURL       string
	FormAction        string
	CatalogFile       string
	Debug             bool
}

// Load reads an optional .env file (or the given files) and then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	// Only the implicit .env may be missing.
	if err := godotenv.Load(files...); err != nil && (len(files) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	conf := &Config{
		Host:             getEnvOrDefault("HOST", "localhost"),
		Port:             getEnvOrDefault("PORT", "8092"),
		LivenessEndpoint: getEnvOrDefault("LIVENESS_ENDPOINT", "/liveness"),
		FormAction:       getEnvOrDefault("FORM_ACTION", "/"),
		CatalogFile:      os.Getenv(prefix + "CATALOG_FILE"),
	}

	conf.FormBaseURL = getEnvOrDefault("FORM_BASE_URL", "http://"+net.JoinHostPort(conf.Host, conf.Port))

	timeout, err := strconv.Atoi(getEnvOrDefault("READ_HEADER_TIMEOUT", "20"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("%sREAD_HEADER_TIMEOUT must be a positive number of seconds: %w", prefix, ErrInvalidValue)
	}

	conf.ReadHeaderTimeout = time.Duration(timeout) * time.Second

	if raw := os.Getenv(prefix + "DEBUG"); raw != "" {
		if conf.Debug, err = strconv.ParseBool(strings.TrimSpace(raw)); err != nil {
			return nil, fmt.Errorf("%sDEBUG %q: %w", prefix, raw, ErrInvalidValue)
		}
	}

	return conf, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(prefix + key)); value != "" {
		return value
	}

	return defaultValue
}
