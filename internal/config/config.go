package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/hooks/luamod"
	"github.com/dshills/imphook/internal/logging"
)

// Configuration keys.
const (
	KeyHost       = "host"
	KeyPath       = "path"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyLuaTimeout = "lua_timeout"
)

// EnvPrefix prefixes every environment variable read by New.
const EnvPrefix = "IMPHOOK"

// Config contains the runtime configuration.
type Config struct {
	Host       string
	Paths      []string
	LogLevel   string
	LogFormat  string
	LuaTimeout time.Duration
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHost, host.KindPipeline)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, logging.FormatAuto)
	v.SetDefault(KeyLuaTimeout, luamod.DefaultTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("imphook")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "imphook"))
	}
	return v
}

// ReadFile reads the config file if one exists.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:       v.GetString(KeyHost),
		Paths:      paths(v.Get(KeyPath)),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		LuaTimeout: v.GetDuration(KeyLuaTimeout),
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = host.DefaultPaths()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// paths accepts a path list string or a list from a config file.
func paths(raw any) []string {
	switch x := raw.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		return filepath.SplitList(x)
	}
	return cast.ToStringSlice(raw)
}

// Validate returns an error if the configuration is invalid.
func (c Config) Validate() error {
	switch c.Host {
	case host.KindSimple, host.KindPipeline:
	default:
		return fmt.Errorf("%w: host %q (want %s or %s)", ErrInvalidConfig, c.Host, host.KindSimple, host.KindPipeline)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.LuaTimeout < 0 {
		return fmt.Errorf("%w: negative lua timeout", ErrInvalidConfig)
	}
	return nil
}
