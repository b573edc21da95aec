// Package config loads runtime settings from formtpl.yaml, a .env file and
// FORMTPL_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formtemplate/pkg/patients"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

// EnvPrefix prefixes every environment override, e.g. FORMTPL_HTTP_ADDR.
const EnvPrefix = "FORMTPL"

// Config is the resolved runtime configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Patients PatientsConfig `mapstructure:"patients"`
}

// CatalogConfig selects the template source. An empty Dir uses the embedded
// catalog.
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type PatientsConfig struct {
	// RecentCutoff splits the recent and overdue chips (YYYY-MM-DD).
	RecentCutoff string `mapstructure:"recent_cutoff"`
	// Seed inserts the demo patients into an empty table.
	Seed bool `mapstructure:"seed"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty formtpl.yaml is searched in
	// "." and "./configs".
	File string
	// EnvFile is an optional dotenv file, ".env" when empty. A missing file is
	// ignored.
	EnvFile string
	// Viper lets callers bind flags before loading. A fresh instance is used
	// when nil.
	Viper *viper.Viper
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.dir", "")
	v.SetDefault("database.dsn", "file:patients.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("patients.recent_cutoff", patients.DefaultCutoff)
	v.SetDefault("patients.seed", true)
}

// Load resolves the configuration. Precedence from lowest to highest is
// defaults, config file, environment (including .env) then bound flags.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("formtpl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("config: http.addr is required")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database.dsn is required")
	}
	if cutoff := strings.TrimSpace(c.Patients.RecentCutoff); cutoff != "" {
		if _, err := time.Parse(template.DateLayout, cutoff); err != nil {
			return fmt.Errorf("config: patients.recent_cutoff: %w", err)
		}
	}
	return nil
}
