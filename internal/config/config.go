package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Env            string
	BaseURL        string
	TimeoutSeconds int
	TokenFile      string
	LogJSON        bool

	// devserver only
	Port        int
	DatabaseDSN string
	JWTSecret   string
}

func Default() Config {
	return Config{
		Env:            "dev",
		BaseURL:        "http://127.0.0.1:5000",
		TimeoutSeconds: 15,
		TokenFile:      defaultTokenFile(),
		LogJSON:        false,
		Port:           5000,
		DatabaseDSN:    "",
		JWTSecret:      "dev-secret",
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("EATORBIT_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("EATORBIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("EATORBIT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("EATORBIT_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv("EATORBIT_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		}
	}
	if v := os.Getenv("EATORBIT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("EATORBIT_DATABASE_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("EATORBIT_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	return c
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eatorbit-token.json"
	}
	return filepath.Join(home, ".config", "eatorbit", "token.json")
}
