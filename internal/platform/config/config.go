// Package config loads settings for the admin CLI and the stand-in API.
//
// Sources, lowest precedence first:
//  1. Defaults
//  2. An optional .env file
//  3. Environment variables (CAMPUS_ prefix)
//  4. Command-line flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/pagination"
)

const envPrefix = "CAMPUS"

// Config is the admin CLI configuration.
type Config struct {
	APIURL     string        `mapstructure:"api_url"`
	TokenFile  string        `mapstructure:"token_file"`
	PageSize   int           `mapstructure:"page_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
	WireFormat string        `mapstructure:"wire_format"`
	LogLevel   string        `mapstructure:"log_level"`
	AuthPath   string        `mapstructure:"auth_path"`

	Format apiclient.Format `mapstructure:"-"`
}

// Server is the stand-in API configuration.
type Server struct {
	Port          string   `mapstructure:"port"`
	LogLevel      string   `mapstructure:"log_level"`
	AuthPath      string   `mapstructure:"auth_path"`
	Origins       []string `mapstructure:"origins"`
	AdminName     string   `mapstructure:"admin_name"`
	AdminEmail    string   `mapstructure:"admin_email"`
	AdminPassword string   `mapstructure:"admin_password"`
}

// flag names keyed by config key
var clientFlags = map[string]string{
	"api_url":     "api-url",
	"token_file":  "token-file",
	"page_size":   "page-size",
	"timeout":     "timeout",
	"wire_format": "format",
	"log_level":   "log-level",
	"auth_path":   "auth-path",
}

// RegisterFlags adds the global CLI flags to fs. Unset flags fall through to
// the environment and defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-url", "", "API base URL (env CAMPUS_API_URL)")
	fs.String("token-file", "", "where the session token is stored (env CAMPUS_TOKEN_FILE)")
	fs.Int("page-size", 0, "rows per page in list views (env CAMPUS_PAGE_SIZE)")
	fs.Duration("timeout", 0, "per-request timeout (env CAMPUS_TIMEOUT)")
	fs.String("format", "", "wire format, json or cbor (env CAMPUS_WIRE_FORMAT)")
	fs.String("log-level", "", "log level for stderr diagnostics (env CAMPUS_LOG_LEVEL)")
	fs.String("auth-path", "", "path of the auth endpoints under the API URL (env CAMPUS_AUTH_PATH)")
}

// Load reads the CLI configuration. envFile may be empty to skip .env
// loading; a missing file is not an error. fs may be nil.
func Load(fs *pflag.FlagSet, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := newViper("api_url", "token_file", "page_size", "timeout", "wire_format", "log_level", "auth_path")
	v.SetDefault("api_url", apiclient.DefaultBaseURL)
	v.SetDefault("page_size", pagination.DefaultLimit)
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("wire_format", string(apiclient.FormatJSON))
	v.SetDefault("log_level", "warn")
	v.SetDefault("auth_path", "/auth")
	if path, err := auth.DefaultTokenPath(); err == nil {
		v.SetDefault("token_file", path)
	}

	if fs != nil {
		for key, name := range clientFlags {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.TokenFile == "" {
		return errors.New("token_file is required: no user config directory")
	}
	if c.PageSize < 1 || c.PageSize > pagination.MaxLimit {
		return fmt.Errorf("page_size must be between 1 and %d", pagination.MaxLimit)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	format, err := apiclient.ParseFormat(c.WireFormat)
	if err != nil {
		return err
	}
	c.Format = format
	return nil
}

// LoadServer reads the stand-in API configuration. PORT is read without the
// prefix so the server runs unchanged on platforms that inject it.
func LoadServer(envFile string) (*Server, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := newViper("log_level", "auth_path", "origins", "admin_name", "admin_email", "admin_password")
	v.SetDefault("port", "5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("auth_path", "/auth")
	v.SetDefault("admin_name", "Administrator")
	_ = v.BindEnv("port", "PORT", envPrefix+"_PORT")

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, errors.New("admin_email and admin_password must be set together")
	}
	return &cfg, nil
}

// newViper binds keys to their CAMPUS_ variables explicitly, since Unmarshal
// only sees keys viper already knows about.
func newViper(keys ...string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	return v
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
