package env

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// Loaded .env values win over the process environment
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt returns def when key is unset or not an integer.
func GetEnvInt(key string, def int) int {
	v, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

// GetEnvDuration parses values such as "5m" or "30s".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return d
}

func SetupEnvFile() {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/tierpay to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	// Containers pass everything through the process environment
	log.Printf("No .env file found, using process environment only")
	Env = map[string]string{}
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
