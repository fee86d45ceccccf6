package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "WORDSPRINT_"

// DictionaryExt is the extension of word list files.
const DictionaryExt = ".num"

// EnvConfig holds overrides read from the environment. Unset variables leave
// the zero value (nil for pointers).
type EnvConfig struct {
	Dictionaries []string `env:"DICTS" envSeparator:","`
	Mode         string   `env:"MODE"`
	Uniform      *bool    `env:"UNIFORM"`
	Log          string   `env:"LOG"`
	PollMs       *int     `env:"POLL_MS"`
}

// LoadEnv reads WORDSPRINT_* variables. Values from the dotenv file at
// envFile are used when the process environment does not set them; a
// missing file is not an error.
func LoadEnv(envFile string) (EnvConfig, error) {
	vars, err := readEnvFile(envFile)
	if err != nil {
		return EnvConfig{}, err
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			vars[key] = value
		}
	}
	return parseEnv(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return vars, nil
}

func parseEnv(opts env.Options) (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
