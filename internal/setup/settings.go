package setup

import (
	"os"
)

// Settings are process-level knobs read from the environment (and .env).
type Settings struct {
	LogLevel     string
	LogFormat    string
	OutputRoot   string
	ProfilesPath string
	AWSRegion    string
}

func LoadSettings() *Settings {
	return &Settings{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		OutputRoot:   getEnv("OUTPUT_ROOT", "."),
		ProfilesPath: getEnv("PROFILES_CONFIG_PATH", ""),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
