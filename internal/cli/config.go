package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the CLI defaults. Precedence: flags > PROFILER_* env >
// config file > built-in defaults.
type Settings struct {
	Theme         string `mapstructure:"theme" yaml:"theme"`
	Minimal       bool   `mapstructure:"minimal" yaml:"minimal"`
	Output        string `mapstructure:"output" yaml:"output"`
	Summary       string `mapstructure:"summary" yaml:"summary"`
	TopValues     int    `mapstructure:"top_values" yaml:"top_values"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	SampleRows    int    `mapstructure:"sample_rows" yaml:"sample_rows"`
}

// LoadSettings reads settings from cfgFile, or from
// ~/.profiler/config.yaml when cfgFile is empty and that file exists.
func LoadSettings(cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("PROFILER")
	v.AutomaticEnv()

	v.SetDefault("theme", "standard")
	v.SetDefault("minimal", false)
	v.SetDefault("output", "data_profile_report.html")
	v.SetDefault("summary", "")
	v.SetDefault("top_values", 10)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("sample_rows", 10)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".profiler"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}
