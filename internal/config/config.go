// Package config reads nakupi settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/erazemk/nakupi/internal/model"
)

type Config struct {
	// Storage
	DBPath   string
	SeedPath string

	// HTTP server
	Addr          string
	SecureCookies bool

	// First-run admin account. An empty password means one is generated.
	AdminUser     string
	AdminPassword string

	LogPath string
}

// LoadEnvFile loads variables from a .env file into the environment
// without overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from NAKUPI_* environment variables and defaults.
func Load() *Config {
	return &Config{
		DBPath:        getEnv("NAKUPI_DB", "nakupi.sqlite3"),
		SeedPath:      getEnv("NAKUPI_SEED", ""),
		Addr:          getEnv("NAKUPI_ADDR", ":8080"),
		SecureCookies: getEnvBool("NAKUPI_SECURE_COOKIES", false),
		AdminUser:     getEnv("NAKUPI_ADMIN_USER", "admin"),
		AdminPassword: getEnv("NAKUPI_ADMIN_PASSWORD", ""),
		LogPath:       getEnv("NAKUPI_LOG", ""),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if _, port, err := net.SplitHostPort(c.Addr); err != nil {
		problems = append(problems, fmt.Sprintf("invalid listen address '%s': %v", c.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be between 0 and 65535", port))
	}

	if strings.TrimSpace(c.AdminUser) == "" {
		problems = append(problems, "admin username cannot be empty")
	}
	if c.AdminPassword != "" {
		if err := model.ValidatePassword(c.AdminPassword); err != nil {
			problems = append(problems, fmt.Sprintf("admin password: %v", err))
		}
	}

	if c.SeedPath != "" {
		if _, err := os.Stat(c.SeedPath); err != nil {
			problems = append(problems, fmt.Sprintf("seed file '%s' is not readable: %v", c.SeedPath, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
