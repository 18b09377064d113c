package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

// DefaultThumbnailTemplate addresses Google Drive thumbnails.
const DefaultThumbnailTemplate = "https://drive.google.com/thumbnail?id=%s&sz=w%d"

// defaults lists every key with its default value. Keys without a sensible
// default are bound to the environment explicitly in Load.
var defaults = map[string]interface{}{
	"server.port":                 8080,
	"server.log_level":            "info",
	"assets.source":               "drive",
	"assets.thumbnail_template":   DefaultThumbnailTemplate,
	"assets.thumbnail_width":      1000,
	"assets.cache_ttl_seconds":    300,
	"assets.page_size":            200,
	"ui.gallery_columns":          8,
	"ui.page_size":                3,
	"ui.memory_columns":           4,
	"ui.default_interval_seconds": 3,
	"ui.default_pairs":            6,
	"ui.max_pairs":                12,
	"session.idle_ttl_minutes":    60,
	"session.max_sessions":        1000,
	"session.queue_size":          64,
}

var boundKeys = []string{
	"assets.folder_id",
	"assets.credentials_file",
	"assets.dir",
}

// Load configuration from environment variables and optionally a config file.
// The file is taken from SCRY_CONFIG_FILE, or config.yaml in the working
// directory if present. Environment variables take precedence over values
// from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile behaves like Load but reads the given YAML file instead of
// searching for one. An empty path falls back to the default search.
func LoadFromFile(path string) (*Config, error) {
	return LoadWith(path, nil)
}

// LoadWith behaves like LoadFromFile and then applies overrides, keyed like
// "assets.dir". Overrides take precedence over environment and file values.
func LoadWith(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigType("yaml")
	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
