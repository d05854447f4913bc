package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/asmsim/sim"
)

// runFile is the on-disk description of a run.
type runFile struct {
	sim.Config `yaml:",inline"`

	// Comma separated locations to report, replacing the state table.
	Track string `yaml:"track" toml:"track"`
}

// loadConfig reads a run description over config. Files ending in .toml
// are TOML, anything else is YAML.
func loadConfig(path string, config *sim.Config) (err error) {
	file := runFile{Config: *config}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err = toml.DecodeFile(path, &file)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return
		}
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return
	}

	if len(file.Track) != 0 {
		file.StateConfig, err = sim.ParseStateConfig(file.Track)
		if err != nil {
			return
		}
	}

	*config = file.Config
	return
}

// applyEnv overrides config from ASMSIM_TIMEOUT_MS and ASMSIM_VERBOSE.
func applyEnv(config *sim.Config) {
	if env.Has("ASMSIM_TIMEOUT_MS") {
		ms := env.Int("ASMSIM_TIMEOUT_MS", int(config.Timeout/time.Millisecond))
		config.Timeout = time.Duration(ms) * time.Millisecond
	}
	if env.Has("ASMSIM_VERBOSE") {
		config.Verbose = env.Bool("ASMSIM_VERBOSE")
	}
}
