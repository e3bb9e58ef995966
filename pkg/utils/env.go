package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv loads the .env file for the given mode. It tries .env.<mode> first
// and falls back to plain .env.
func LoadEnv(mode string) error {
	if mode != "" {
		if err := godotenv.Load(fmt.Sprintf(".env.%s", mode)); err == nil {
			return nil
		}
	}
	return godotenv.Load()
}

// GetEnv returns the raw environment value, empty string if unset.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetStringOrDefault returns the environment value or def when unset/empty.
func GetStringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetIntEnv returns the environment value as int64, 0 when unset or invalid.
func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

// GetIntOrDefault returns the environment value as int or def when unset/invalid.
func GetIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// GetBoolOrDefault returns the environment value as bool or def when unset/invalid.
func GetBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}
