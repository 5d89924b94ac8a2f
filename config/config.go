// Package config loads the demo's configuration, the buffer pool's
// num_frames and the data file's page_size, from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// BufferConfig holds the buffer pool manager's construction parameter.
type BufferConfig struct {
	Buffer struct {
		NumFrames int `mapstructure:"num_frames"`
		PageSize  int `mapstructure:"page_size"`
	} `mapstructure:"buffer"`
}

// Load reads path (YAML) and environment overrides (BUFMGR_BUFFER_*) into a
// BufferConfig.
func Load(path string) (*BufferConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BUFMGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("buffer.num_frames", 16)
	v.SetDefault("buffer.page_size", 4096)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg BufferConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if cfg.Buffer.NumFrames < 1 {
		return nil, fmt.Errorf("config %s: buffer.num_frames must be >= 1, got %d", path, cfg.Buffer.NumFrames)
	}
	return &cfg, nil
}
