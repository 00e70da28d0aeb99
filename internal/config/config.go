// Package config holds the launcher's environment snapshot and loads the
// optional ek9-launcher.yaml file that sits next to the compiler artifact.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ek9lang/ek9launch/internal/invocation"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by the launcher.
const (
	HomeVar    = "EK9_HOME"
	MemoryVar  = "EK9_COMPILER_MEMORY"
	NoColorVar = "NO_COLOR"
)

// FileName is the optional configuration file, looked up in the directory
// that holds the compiler artifact.
const FileName = "ek9-launcher.yaml"

// Default values used when neither the environment nor the file sets them.
const (
	DefaultMemory       = invocation.DefaultMemory
	DefaultCaptureBytes = 4096
	DefaultLogLevel     = "warn"
	DefaultMCPTimeout   = 2 * time.Minute
	DefaultMCPMaxOutput = 1 << 20 // 1 MB
)

// Env is a snapshot of the environment variables the launcher reads.
// An empty field means the variable was unset or empty.
type Env struct {
	Home   string
	Memory string
	// NoColor is set when NO_COLOR is present, whatever its value.
	NoColor bool
}

// FromEnviron reads EK9_HOME, EK9_COMPILER_MEMORY and NO_COLOR once.
func FromEnviron() Env {
	_, noColor := os.LookupEnv(NoColorVar)
	return Env{
		Home:    os.Getenv(HomeVar),
		Memory:  os.Getenv(MemoryVar),
		NoColor: noColor,
	}
}

// Config holds the parsed ek9-launcher.yaml.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version         int       `yaml:"version"`
	RawMemory       string    `yaml:"memory"`        // e.g. "-Xmx1g"
	RawCaptureBytes int       `yaml:"capture_bytes"` // single-read bound for the compiler's output
	RawLogLevel     string    `yaml:"log_level"`     // zerolog level name
	MCP             MCPConfig `yaml:"mcp"`
}

// MCPConfig controls compiler runs made by the MCP server.
type MCPConfig struct {
	RawTimeout   string `yaml:"timeout"`    // e.g. "2m", "30s"
	RawMaxOutput int    `yaml:"max_output"` // bytes per stream
}

// Memory returns the JVM memory flag. A non-empty EK9_COMPILER_MEMORY
// wins and is used verbatim; then the file; then the default.
func (c *Config) Memory(env Env) string {
	if env.Memory != "" {
		return env.Memory
	}
	if c.RawMemory != "" {
		return c.RawMemory
	}
	return DefaultMemory
}

// CaptureBytes returns the configured capture bound or the default.
func (c *Config) CaptureBytes() int {
	if c.RawCaptureBytes > 0 {
		return c.RawCaptureBytes
	}
	return DefaultCaptureBytes
}

// LogLevel returns the configured log level name or the default.
func (c *Config) LogLevel() string {
	if c.RawLogLevel != "" {
		return c.RawLogLevel
	}
	return DefaultLogLevel
}

// MCPTimeout returns the configured MCP compile timeout or the default.
func (c *Config) MCPTimeout() time.Duration {
	if c.MCP.RawTimeout != "" {
		d, err := time.ParseDuration(c.MCP.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultMCPTimeout
}

// MCPMaxOutput returns the configured MCP output bound or the default.
func (c *Config) MCPMaxOutput() int {
	if c.MCP.RawMaxOutput > 0 {
		return c.MCP.RawMaxOutput
	}
	return DefaultMCPMaxOutput
}

// Load reads ek9-launcher.yaml from dir. If dir is empty or the file does
// not exist, a default Config is returned.
func Load(dir string) (*Config, error) {
	if dir == "" {
		return &Config{}, nil
	}

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return cfg, nil
}
