package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".pego"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for pego settings.
const envPrefix = "PEGO"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default values applied before the config file and environment are
// read, so a missing .pego.yaml is never an error.
const (
	DefaultColor       = true
	DefaultStartRule   = "start"
	DefaultMetricsAddr = ":9090"
	DefaultHistoryFile = ".peg_history"
)

// Load loads configuration from defaults, then an optional config file,
// then PEGO_* environment variables. If configPath is non-empty it is
// used as the explicit config file path; otherwise the file is searched
// for in the current directory and $HOME.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("color", DefaultColor)
	v.SetDefault("start_rule", DefaultStartRule)
	v.SetDefault("metrics_addr", DefaultMetricsAddr)
	v.SetDefault("history_file", DefaultHistoryFile)
}
