// Package config resolves runtime settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/csheth/notebookconv/internal/session"
)

// EnvPrefix namespaces environment variables, e.g. NOTEBOOK_CONVERTER_API_URL.
const EnvPrefix = "NOTEBOOK_CONVERTER"

const (
	KeyAPIURL    = "api_url"
	KeyOutputDir = "output_dir"
	KeyFormat    = "format"
	KeyLogFile   = "log_file"
	KeyAltScreen = "alt_screen"
	KeyUserAgent = "user_agent"
)

const (
	DefaultAPIURL    = "http://localhost:8000"
	DefaultUserAgent = "notebookconv/dev"

	configName = "notebookconv"
)

// Config is the effective configuration for one run.
type Config struct {
	APIURL    string `mapstructure:"api_url" yaml:"api_url"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Format    string `mapstructure:"format" yaml:"format"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	AltScreen bool   `mapstructure:"alt_screen" yaml:"alt_screen"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyFormat, string(session.FormatHTML))
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyAltScreen, false)
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
}

// Init wires env lookup and the config file search path into v, then reads
// the file if one exists. An explicit file that cannot be read is an error;
// a missing default file is not. It returns the file used, if any.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyAPIURL, c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", KeyAPIURL, c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", KeyAPIURL, c.APIURL)
	}

	f, err := session.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = string(f)

	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return nil
}

// OutputFormat returns the validated format.
func (c Config) OutputFormat() session.Format {
	return session.Format(c.Format)
}
