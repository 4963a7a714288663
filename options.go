package rhinoline

import (
	"log/slog"
	"time"
)

// Default client configuration values.
const (
	defaultExecutable       = "python3"
	defaultGracePeriod      = 5 * time.Second
	defaultDrainJoinTimeout = 2 * time.Second
	defaultMaxLineSize      = 4 << 20 // 4 MB — responses may carry base64 viewport captures
)

func defaultArgs() []string {
	return []string{"-m", "rhino_mcp.rhino_mcp.server"}
}

// Options holds resolved construction-time configuration for a Client.
type Options struct {
	// Executable is the server interpreter or binary, resolved via PATH.
	Executable string

	// Args are the arguments passed to the executable.
	Args []string

	// WorkDir is the subprocess working directory. Empty inherits the
	// parent's.
	WorkDir string

	// GracePeriod is how long Stop waits after SIGTERM before SIGKILL.
	GracePeriod time.Duration

	// DrainJoinTimeout bounds the wait for the diagnostic drain during
	// Stop, so shutdown cannot hang on a stuck stream.
	DrainJoinTimeout time.Duration

	// MaxLineSize is the maximum accepted length of one protocol or
	// diagnostic line, in bytes.
	MaxLineSize int

	// Logger receives drain output and channel diagnostics.
	Logger *slog.Logger
}

// Option configures a Client at construction time.
type Option func(*Options)

// WithExecutable sets the server executable name or path.
func WithExecutable(executable string) Option {
	return func(o *Options) {
		if executable != "" {
			o.Executable = executable
		}
	}
}

// WithArgs sets the arguments passed to the executable.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = args
	}
}

// WithWorkDir sets the subprocess working directory.
func WithWorkDir(dir string) Option {
	return func(o *Options) {
		o.WorkDir = dir
	}
}

// WithGracePeriod sets the SIGTERM-to-SIGKILL grace period.
// Values <= 0 are ignored.
func WithGracePeriod(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.GracePeriod = d
		}
	}
}

// WithDrainJoinTimeout bounds the diagnostic-drain wait during Stop.
// Values <= 0 are ignored.
func WithDrainJoinTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.DrainJoinTimeout = d
		}
	}
}

// WithMaxLineSize sets the maximum protocol/diagnostic line length in bytes.
// Values <= 0 are ignored.
func WithMaxLineSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxLineSize = n
		}
	}
}

// WithLogger sets the logger for drain output and channel diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

func resolveOptions(opts ...Option) Options {
	o := Options{
		Executable:       defaultExecutable,
		Args:             defaultArgs(),
		GracePeriod:      defaultGracePeriod,
		DrainJoinTimeout: defaultDrainJoinTimeout,
		MaxLineSize:      defaultMaxLineSize,
		Logger:           slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
