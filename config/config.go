package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads the first .env file it finds and returns the environment as a map.
// Missing .env files are not an error; the process environment is used as is.
func Load() map[string]string {
	possiblePaths := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	var envLoaded bool
	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			envLoaded = true
			log.Debug().Str("path", envPath).Msg("Loaded .env file")
			break
		}
	}
	if !envLoaded {
		log.Warn().Msg("No .env file found, using existing environment variables")
	}

	return New()
}

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}
	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetDuration reads an integer number of `unit`s, e.g. GetDuration(c, "READ_TIMEOUT_SECONDS", 180, time.Second).
func GetDuration(config map[string]string, key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetInt(config, key, defaultValue)) * unit
}

// GetList splits a comma separated value, dropping blank entries.
func GetList(config map[string]string, key string, defaultValue []string) []string {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
