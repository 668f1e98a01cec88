// Package config handles loxvm.toml configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "loxvm.toml"

// Config represents a loxvm.toml file.
type Config struct {
	VM    VM    `toml:"vm"`
	Debug Debug `toml:"debug"`
	REPL  REPL  `toml:"repl"`
}

// VM configures the virtual machine.
type VM struct {
	StackSize int  `toml:"stack-size"`
	Trace     bool `toml:"trace"`
}

// Debug configures diagnostic listings.
type Debug struct {
	Disassemble bool `toml:"disassemble"`
	PrintTokens bool `toml:"print-tokens"`
}

// REPL configures the interactive prompt.
type REPL struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		VM: VM{
			StackSize: 256,
		},
		REPL: REPL{
			Prompt:  "> ",
			History: ".loxvm_history",
		},
	}
}

// Load parses a configuration file on top of the defaults.
// A missing file at DefaultFile is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultFile && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.VM.StackSize <= 0 {
		return fmt.Errorf("vm.stack-size must be positive, got %d", c.VM.StackSize)
	}
	if c.REPL.Prompt == "" {
		return errors.New("repl.prompt must not be empty")
	}

	return nil
}
