package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config tells the persistence layer where slots live.
type Config interface {
	BasePath() string
	LogLevel() string
}

// LoadConfig reads .crosscal.yaml and CROSSCAL_* environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.crosscal")
	v.SetDefault("log-level", "warn")
	v.SetConfigName(".crosscal") // .yaml is implicit
	v.SetEnvPrefix("CROSSCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("CROSSCAL_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{Path: path, Level: v.GetString("log-level")}, nil
}

type fileConfig struct {
	Path  string `json:"path"`
	Level string `json:"logLevel"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

// StaticConfig is a Config with fixed values.
type StaticConfig struct {
	Path  string
	Level string
}

func (s StaticConfig) BasePath() string {
	return s.Path
}

func (s StaticConfig) LogLevel() string {
	return s.Level
}
