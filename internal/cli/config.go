package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved configuration for one command invocation.
//
// Values are layered: command-line flags override SIEVE_* environment
// variables, which override the config file, which overrides the defaults.
type Config struct {
	Format      string   `mapstructure:"format"`
	Verbose     bool     `mapstructure:"verbose"`
	CaseFold    bool     `mapstructure:"case_fold"`
	KnownFields []string `mapstructure:"known_fields"`
}

const (
	envPrefix  = "SIEVE"
	configName = ".sieve"
)

// configFlags maps config keys to the flags that override them. A command
// that does not define a flag simply leaves the key to env and file.
var configFlags = map[string]string{
	"format":       "format",
	"verbose":      "verbose",
	"case_fold":    "case-fold",
	"known_fields": "fields",
}

// LoadConfig resolves the configuration. path names an explicit config
// file, which must exist; when empty, .sieve.yaml in the working directory
// is used if present.
func LoadConfig(flags *pflag.FlagSet, path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("case_fold", false)
	v.SetDefault("known_fields", []string{})

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range configFlags {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
