// Package config loads paperclip.config.json (spec §6).
package config

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
)

// CompilerOption is one `compilerOptions` entry.
type CompilerOption struct {
	Emit   []string `json:"emit"`
	OutDir string   `json:"outDir,omitempty"`
}

// Config is the decoded form of paperclip.config.json (spec §6).
type Config struct {
	SrcDir          string           `json:"srcDir"`
	ModuleDirs      []string         `json:"moduleDirs"`
	CompilerOptions []CompilerOption `json:"compilerOptions"`
}

// Default returns the configuration used when no config file is
// present: srcDir defaults to "src" per spec §6.
func Default() Config {
	return Config{SrcDir: "src"}
}

// Load reads and decodes path, applying spec §6's default for srcDir
// when the file omits it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw JSON bytes into a Config.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid JSON: %w", err)
	}
	if cfg.SrcDir == "" {
		cfg.SrcDir = "src"
	}
	return cfg, nil
}

// Marshal encodes a Config back to JSON in the paperclip.config.json
// shape that Parse reads.
func Marshal(cfg Config) ([]byte, error) {
	return json.Marshal(cfg)
}
