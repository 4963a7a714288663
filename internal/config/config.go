package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dmora/rhinoline"
)

//go:embed sample_config.toml
var sampleConfig string

// Server describes how to spawn the bridge server subprocess.
type Server struct {
	Executable string   `toml:"executable"`
	Args       []string `toml:"args"`
	WorkDir    string   `toml:"workdir"`
}

// Timeouts holds shutdown and request timing, in seconds.
type Timeouts struct {
	// GraceSeconds is how long to wait between the graceful termination
	// request and the forced kill.
	GraceSeconds int `toml:"grace_seconds"`

	// DrainJoinSeconds bounds the diagnostic-drain wait during shutdown.
	DrainJoinSeconds int `toml:"drain_join_seconds"`

	// RequestSeconds bounds each CLI request. 0 means no timeout; server
	// code execution can legitimately run for minutes.
	RequestSeconds int `toml:"request_seconds"`
}

// Protocol holds wire-level limits.
type Protocol struct {
	// MaxLineBytes is the largest accepted response or diagnostic line.
	MaxLineBytes int `toml:"max_line_bytes"`
}

// Logging configures CLI log output.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Config encapsulates all CLI configuration values.
type Config struct {
	Server   Server   `toml:"server"`
	Timeouts Timeouts `toml:"timeouts"`
	Protocol Protocol `toml:"protocol"`
	Logging  Logging  `toml:"logging"`
}

const (
	defaultGraceSeconds     = 5
	defaultDrainJoinSeconds = 2
	defaultMaxLineBytes     = 4 << 20
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Executable: "python3",
			Args:       []string{"-m", "rhino_mcp.rhino_mcp.server"},
		},
		Timeouts: Timeouts{
			GraceSeconds:     defaultGraceSeconds,
			DrainJoinSeconds: defaultDrainJoinSeconds,
		},
		Protocol: Protocol{
			MaxLineBytes: defaultMaxLineBytes,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rhinoline/config.toml")
}

// Load locates, parses, and validates a configuration file. An absent file
// yields the defaults; exists reports whether one was read.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	c := Default()

	resolved, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&c); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if c.Server.WorkDir != "" {
		expanded, err := expandPath(c.Server.WorkDir)
		if err != nil {
			return nil, "", false, err
		}
		c.Server.WorkDir = expanded
	}

	if err := c.Validate(); err != nil {
		return nil, "", false, err
	}
	return &c, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("rhinoline.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() []rhinoline.Option {
	opts := []rhinoline.Option{
		rhinoline.WithExecutable(c.Server.Executable),
		rhinoline.WithGracePeriod(time.Duration(c.Timeouts.GraceSeconds) * time.Second),
		rhinoline.WithDrainJoinTimeout(time.Duration(c.Timeouts.DrainJoinSeconds) * time.Second),
		rhinoline.WithMaxLineSize(c.Protocol.MaxLineBytes),
	}
	if len(c.Server.Args) > 0 {
		opts = append(opts, rhinoline.WithArgs(c.Server.Args...))
	}
	if c.Server.WorkDir != "" {
		opts = append(opts, rhinoline.WithWorkDir(c.Server.WorkDir))
	}
	return opts
}

// RequestTimeout returns the per-request timeout, or 0 when unbounded.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeouts.RequestSeconds) * time.Second
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
