package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ErrCredentials marks every failure to obtain the provider API credentials.
var ErrCredentials = errors.New("API key configuration issue")

// Credentials maps a credential key (e.g. GEMINI_API_KEY) to its value.
type Credentials map[string]string

func (c Credentials) Get(key string) string {
	return c[key]
}

// LoadCredentials reads the JSON config file at path and returns the requested keys.
// Every key must be present, spelled with its exact case, and non-empty.
func LoadCredentials(path string, keys ...string) (Credentials, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: config path is empty", ErrCredentials)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrCredentials, path, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrCredentials, path, err)
	}

	// viper folds key case; the top-level object keeps the spelling used in the file.
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrCredentials, path, err)
	}

	creds := make(Credentials, len(keys))
	for _, key := range keys {
		if _, ok := present[key]; !ok || !v.IsSet(key) {
			return nil, fmt.Errorf("%w: key %s not found in %s", ErrCredentials, key, path)
		}
		value := strings.TrimSpace(v.GetString(key))
		if value == "" {
			return nil, fmt.Errorf("%w: key %s is empty in %s", ErrCredentials, key, path)
		}
		creds[key] = value
	}

	return creds, nil
}
