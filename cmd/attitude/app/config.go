package app

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/window"
)

// ByteSize is a size in bytes, written in configuration files as a human
// string such as "100MB" or "64 MiB".
type ByteSize int64

func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	n, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return fmt.Errorf("app.ByteSize: failed to parse: %s", err)
	}

	*b = ByteSize(n)
	return nil
}

func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func (b ByteSize) String() string {
	return humanize.Bytes(uint64(b))
}

// Config represents the main application configuration
type Config struct {
	Settings    Settings          `yaml:"settings"`
	Orientation OrientationConfig `yaml:"orientation"`
	Accel       AccelConfig       `yaml:"accel"`
	Window      WindowConfig      `yaml:"window"`
	Storage     StorageConfig     `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// OrientationConfig selects the orientation log and how it is converted.
type OrientationConfig struct {
	Path        string `yaml:"path"`
	Radians     bool   `yaml:"radians"`
	SkipInvalid bool   `yaml:"skipInvalid"`
}

// AccelConfig selects the accelerometer log the window is extracted from.
type AccelConfig struct {
	Path      string   `yaml:"path"`
	Schema    string   `yaml:"schema"`
	SizeLimit ByteSize `yaml:"sizeLimit"`
	ChunkSize int      `yaml:"chunkSize"`
}

// WindowConfig describes the extraction window. It defaults to the whole
// source; YAML accepts .inf and -.inf for open ends.
type WindowConfig struct {
	Channel string  `yaml:"channel"`
	From    float64 `yaml:"from"`
	To      float64 `yaml:"to"`
}

// StorageConfig points at an imported session. When both fields are set the
// window is read from the database instead of accel.path.
type StorageConfig struct {
	Database string `yaml:"database"`
	Session  int64  `yaml:"session"`
}

// NewConfig returns a configuration with defaults applied.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: "info"},
		Accel: AccelConfig{
			Schema:    logfile.AccelHFSchema.Name,
			SizeLimit: ByteSize(logfile.DefaultSizeLimit),
			ChunkSize: logfile.DefaultChunkSize,
		},
		Window: WindowConfig{Channel: "X", From: math.Inf(-1), To: math.Inf(1)},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

// NewConfigFromCLI loads the file named by -c, if any, and applies the
// flags that were set explicitly on top of it.
func NewConfigFromCLI(args []string) (*Config, error) {
	fs := flag.NewFlagSet("attitude", flag.ContinueOnError)

	var configPath, channel string
	var from, to float64
	var chunkSize int
	fs.StringVar(&configPath, "c", "", "Path to the configuration file")
	fs.StringVar(&channel, "channel", "", "Accelerometer channel to extract (Time, X, Y, Z, ...)")
	fs.Float64Var(&from, "from", 0, "Window start time in seconds (format nn.n)")
	fs.Float64Var(&to, "to", 0, "Window end time in seconds (format nn.n)")
	fs.IntVar(&chunkSize, "chunk", 0, "Rows per chunk when scanning the accelerometer log")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "channel":
			c.Window.Channel = channel
		case "from":
			c.Window.From = from
		case "to":
			c.Window.To = to
		case "chunk":
			c.Accel.ChunkSize = chunkSize
		}
	})

	if err := c.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for missing or inconsistent settings.
func (c *Config) Validate() error {
	fromStore := c.Storage.Database != "" || c.Storage.Session != 0

	switch {
	case c.Orientation.Path == "" && c.Accel.Path == "" && !fromStore:
		return errors.New("nothing to do: set orientation.path, accel.path or storage")
	case fromStore && (c.Storage.Database == "" || c.Storage.Session <= 0):
		return errors.New("storage requires both database and a positive session")
	case c.Accel.ChunkSize <= 0:
		return fmt.Errorf("invalid chunk size: %d", c.Accel.ChunkSize)
	case c.Window.From > c.Window.To:
		return fmt.Errorf("%w: from %g is after to %g", window.ErrInvalidWindow, c.Window.From, c.Window.To)
	case strings.TrimSpace(c.Window.Channel) == "":
		return errors.New("window channel is required")
	}

	if _, ok := logfile.SchemaByName(c.Accel.Schema); !ok {
		return fmt.Errorf("unknown accelerometer schema: %s", c.Accel.Schema)
	}
	return nil
}

// FromStore reports whether the window is read from an imported session.
func (c *Config) FromStore() bool {
	return c.Storage.Database != "" && c.Storage.Session > 0
}
