// Package config provides Viper-based configuration for mediares:
// custom format specs and resolution defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/AnyUserName/mediares/internal/format"
)

// Config is the complete mediares configuration.
type Config struct {
	Formats  map[string]FormatConfig `mapstructure:"formats"`
	Defaults DefaultsConfig          `mapstructure:"defaults"`
}

// FormatConfig declares one named format spec. The ratio can be given
// directly or as integer sides (ratio_width/ratio_height).
type FormatConfig struct {
	MinWidth    int      `mapstructure:"min_width"`
	MaxWidth    int      `mapstructure:"max_width"`
	MinHeight   int      `mapstructure:"min_height"`
	MaxHeight   int      `mapstructure:"max_height"`
	Ratio       float64  `mapstructure:"ratio"`
	RatioWidth  int      `mapstructure:"ratio_width"`
	RatioHeight int      `mapstructure:"ratio_height"`
	Extensions  []string `mapstructure:"extensions"`
}

// DefaultsConfig contains default resolution behavior.
type DefaultsConfig struct {
	Extensions        []string `mapstructure:"extensions"`
	IncludeThumbnails bool     `mapstructure:"include_thumbnails"`
}

// Load reads configuration from file and environment variables. A
// missing config file is fine; defaults apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".mediares")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mediares")
	}

	v.SetEnvPrefix("MEDIARES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Catalog merges the configured formats over the built-in catalog.
// Configured specs override built-ins of the same name.
func (c *Config) Catalog() (*format.Catalog, error) {
	catalog := format.DefaultCatalog()
	for name, fc := range c.Formats {
		spec, err := fc.Spec(name)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := catalog.Add(spec); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return catalog, nil
}

// Spec converts the config entry into a validated format spec.
func (f FormatConfig) Spec(name string) (format.Spec, error) {
	ratio := f.Ratio
	if ratio == 0 && f.RatioWidth > 0 && f.RatioHeight > 0 {
		ratio = format.Ratio(f.RatioWidth, f.RatioHeight)
	}
	s := format.Spec{
		Name:       name,
		MinWidth:   f.MinWidth,
		MaxWidth:   f.MaxWidth,
		MinHeight:  f.MinHeight,
		MaxHeight:  f.MaxHeight,
		Ratio:      ratio,
		Extensions: f.Extensions,
	}
	if err := s.Validate(); err != nil {
		return format.Spec{}, err
	}
	return s, nil
}
