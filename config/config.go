package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config.json"

	organization = "schwerpunkt"
	application  = "kioku"

	// DefaultWordlistURL is fetched on first use when no wordlist is given.
	DefaultWordlistURL = "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt"
	defaultLength      = 3
	defaultLogLevel    = "warning"
)

// ConfigError reports that a required location or setting could not be resolved.
type ConfigError struct {
	What string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.What
	}
	return fmt.Sprintf("%s: %v", e.What, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// GetConfigDir returns the per-user application directory. KIOKU_HOME overrides it.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("KIOKU_HOME"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", &ConfigError{What: "failed to resolve user config directory", Err: err}
	}
	return filepath.Join(base, organization, application), nil
}

// Config represents the application configuration
type Config struct {
	// Length is the default number of words in a generated name.
	Length int `json:"length"`
	// LogLevel is the diagnostic log level (logrus names).
	LogLevel string `json:"log_level"`
	// WordlistURL is where the default wordlist is downloaded from.
	WordlistURL string `json:"wordlist_url"`
	// AssumeYes skips the download confirmation prompt.
	AssumeYes bool `json:"assume_yes"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Length:      defaultLength,
		LogLevel:    defaultLogLevel,
		WordlistURL: DefaultWordlistURL,
		AssumeYes:   false,
	}
}

// NewViper returns a viper instance with defaults, the optional config file in dir
// and KIOKU_* environment variables wired up. A missing config file is not an error.
func NewViper(dir string) (*viper.Viper, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("length", def.Length)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("wordlist_url", def.WordlistURL)
	v.SetDefault("assume_yes", def.AssumeYes)

	v.SetEnvPrefix("kioku")
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &ConfigError{What: "failed to read " + filepath.Join(dir, ConfigFileName), Err: err}
			}
		}
	}
	return v, nil
}

// BindFlags binds command line flags so an explicitly set flag wins over file and env.
// Flag names must match config keys; the map translates where they differ.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return &ConfigError{What: fmt.Sprintf("unknown flag %q for key %q", flag, key)}
		}
		if err := v.BindPFlag(key, f); err != nil {
			return &ConfigError{What: "failed to bind flag " + flag, Err: err}
		}
	}
	return nil
}

// FromViper extracts a Config from v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Length:      v.GetInt("length"),
		LogLevel:    v.GetString("log_level"),
		WordlistURL: v.GetString("wordlist_url"),
		AssumeYes:   v.GetBool("assume_yes"),
	}
}

// LoadConfig layers flags over KIOKU_* env over config.json in the config dir
// over defaults. flags and keys may be nil.
func LoadConfig(flags *pflag.FlagSet, keys map[string]string) (*viper.Viper, *Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	v, err := NewViper(dir)
	if err != nil {
		return nil, nil, err
	}
	if flags != nil {
		if err := BindFlags(v, flags, keys); err != nil {
			return nil, nil, err
		}
	}
	return v, FromViper(v), nil
}
