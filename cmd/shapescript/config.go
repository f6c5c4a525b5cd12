package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// config is the optional shapescript.toml settings file, grounded on
// internal/tqw/tqw.go's toml.Unmarshal-based manifest loading.
type config struct {
	Seed   uint64 `toml:"seed"`
	Prompt string `toml:"prompt"`
}

func defaultConfig() config {
	return config{Seed: 1, Prompt: "shapescript> "}
}

// loadConfig reads path if it exists, overlaying any set fields onto the
// default config. A missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
