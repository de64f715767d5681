// Package config loads coreshell settings.
//
// Priority, highest first: command-line flags bound to the viper instance,
// CORESHELL_* environment variables, the local .env file, the .env file in
// the config directory, the YAML config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CORESHELL"

// Config holds the engine settings.
type Config struct {
	LogLevel    string              `mapstructure:"log_level"`
	LogFile     string              `mapstructure:"log_file"`
	TestMode    bool                `mapstructure:"test_mode"`
	Language    string              `mapstructure:"language"`
	ModsDir     string              `mapstructure:"mods_dir"`
	CancelGrace time.Duration       `mapstructure:"cancel_grace"`
	Dumb        bool                `mapstructure:"dumb"`
	Maintenance bool                `mapstructure:"maintenance"`
	Prompt      string              `mapstructure:"prompt"`
	User        string              `mapstructure:"user"`
	Users       map[string][]string `mapstructure:"users"`
	Themes      []string            `mapstructure:"themes"`
}

// Dir returns the user configuration directory for coreshell.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "coreshell")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("test_mode", false)
	v.SetDefault("language", "en-US")
	v.SetDefault("mods_dir", filepath.Join(Dir(), "mods"))
	v.SetDefault("cancel_grace", "2s")
	v.SetDefault("dumb", false)
	v.SetDefault("maintenance", false)
	v.SetDefault("prompt", "%s> ")
	v.SetDefault("user", "guest")
	v.SetDefault("users", map[string][]string{
		"guest": {"users"},
		"root":  {"admin", "users"},
	})
	v.SetDefault("themes", []string{"notty", "dark", "light", "ascii"})
}

// DotEnvFiles returns the .env files Load reads, highest priority first.
func DotEnvFiles() []string {
	files := []string{".env"}
	if dir := Dir(); dir != "" {
		files = append(files, filepath.Join(dir, ".env"))
	}
	return files
}

// LoadDotEnv exports the variables of every existing file into the process
// environment. Variables that are already set are kept, so earlier files win.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load .env file %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the configuration into v and decodes it. A nil v uses a fresh
// instance. configFile overrides the default config.yaml lookup; it is an
// error for an explicit file to be missing.
func Load(v *viper.Viper, configFile string, envFiles ...string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if err := LoadDotEnv(envFiles...); err != nil {
		return Config{}, err
	}

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		if dir := Dir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.CancelGrace <= 0 {
		return Config{}, fmt.Errorf("cancel_grace must be positive, got %s", c.CancelGrace)
	}
	return c, nil
}

// ThemeNames returns the configured themes, never empty.
func (c Config) ThemeNames() []string {
	if len(c.Themes) == 0 {
		return []string{"notty"}
	}
	return c.Themes
}
