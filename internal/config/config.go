package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ConverterPathEnv overrides the converter location derived from the program directory.
const ConverterPathEnv = "AAXTOMP3_PATH"

// Config represents environment-derived settings.
type Config struct {
	// ConverterPath is empty unless overridden; relative values are resolved
	// against the program directory.
	ConverterPath string
}

// Load reads .env (if present) and collects the optional settings.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ConverterPath: strings.TrimSpace(os.Getenv(ConverterPathEnv)),
	}
}
