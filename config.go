//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config controls how Init loads and sets up the engine.
type Config struct {
	// LibraryPath is the path to libopentok. Empty means search
	// $OPENTOK_LIB_DIR, the loader path and the system directories.
	LibraryPath string `yaml:"library_path"`
	// LogLevel is passed to otc_log_enable.
	LogLevel LogLevel `yaml:"log_level"`
	// ForwardEngineLogs installs the engine logger callback and writes each
	// line to Logger at debug level.
	ForwardEngineLogs bool `yaml:"forward_engine_logs"`

	CaptureAudio AudioSettings `yaml:"capture_audio"`
	RenderAudio  AudioSettings `yaml:"render_audio"`

	// Credentials are not used by Init. They are carried for programs that
	// keep their session details next to the engine settings.
	Credentials Credentials `yaml:"credentials"`

	Logger *logrus.Logger `yaml:"-"`
}

// Credentials identify a session to join.
type Credentials struct {
	APIKey    string `yaml:"api_key"` //nolint:gosec // configuration field
	SessionID string `yaml:"session_id"`
	Token     string `yaml:"token"` //nolint:gosec // configuration field
}

// Validate reports whether all three values are present.
func (c Credentials) Validate() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("opentok: config: credentials: api_key is required")
	case c.SessionID == "":
		return fmt.Errorf("opentok: config: credentials: session_id is required")
	case c.Token == "":
		return fmt.Errorf("opentok: config: credentials: token is required")
	}
	return nil
}

// DefaultConfig returns the settings Init uses when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		LogLevel:          LogWarn,
		ForwardEngineLogs: true,
		CaptureAudio:      DefaultAudioSettings(),
		RenderAudio:       DefaultAudioSettings(),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
//
// A .env file next to the config, if present, is loaded into the process
// environment first; ${VAR} and $VAR references in the YAML are then
// expanded. Variables already set in the environment win over .env.
func LoadConfig(path string) (Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("opentok: load env: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("opentok: load config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("opentok: parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be applied.
func (c Config) Validate() error {
	if c.LibraryPath != "" {
		if _, err := os.Stat(c.LibraryPath); err != nil {
			return fmt.Errorf("opentok: config: library_path: %w", err)
		}
	}
	if err := c.CaptureAudio.validate(); err != nil {
		return fmt.Errorf("opentok: config: capture_audio: %w", err)
	}
	if err := c.RenderAudio.validate(); err != nil {
		return fmt.Errorf("opentok: config: render_audio: %w", err)
	}
	return nil
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}
