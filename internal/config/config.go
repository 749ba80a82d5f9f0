// Package config loads mudra settings from defaults, mudra.yaml and MUDRA_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "mudra.yaml"

// EnvPrefix prefixes environment overrides, e.g. MUDRA_SERVER_ADDR.
const EnvPrefix = "MUDRA"

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"staticDir"`
}

type CameraConfig struct {
	Device int  `mapstructure:"device"`
	Mirror bool `mapstructure:"mirror"`
	Width  int  `mapstructure:"width"`
	Height int  `mapstructure:"height"`
}

type CaptureConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	MotionGate      bool          `mapstructure:"motionGate"`
	MotionThreshold float64       `mapstructure:"motionThreshold"`
}

type DetectorConfig struct {
	MaxHands        int     `mapstructure:"maxHands"`
	MinConfidence   float64 `mapstructure:"minConfidence"`
	MinTrackingConf float64 `mapstructure:"minTrackingConf"`
}

// ScreenConfig overrides the display size; zero asks the OS.
type ScreenConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type GestureConfig struct {
	ClickMode string `mapstructure:"clickMode"`
}

type DispatchConfig struct {
	EvaluateControl string `mapstructure:"evaluateControl"`
}

type PluginsConfig struct {
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	LogFile  string `mapstructure:"logFile"`
	DataDir  string `mapstructure:"dataDir"`

	Server   ServerConfig   `mapstructure:"server"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Detector DetectorConfig `mapstructure:"detector"`
	Screen   ScreenConfig   `mapstructure:"screen"`
	Gesture  GestureConfig  `mapstructure:"gesture"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Plugins  PluginsConfig  `mapstructure:"plugins"`
	Tray     TrayConfig     `mapstructure:"tray"`
}

// DatabasePath returns the SQLite file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// DefaultDataDir returns ~/.mudra, or ./.mudra when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

func setDefaults() {
	dataDir := DefaultDataDir()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("dataDir", dataDir)

	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.staticDir", "")

	viper.SetDefault("camera.device", 0)
	viper.SetDefault("camera.mirror", true)
	viper.SetDefault("camera.width", 640)
	viper.SetDefault("camera.height", 480)

	viper.SetDefault("capture.interval", "30ms")
	viper.SetDefault("capture.motionGate", false)
	viper.SetDefault("capture.motionThreshold", 1.0)

	viper.SetDefault("detector.maxHands", 2)
	viper.SetDefault("detector.minConfidence", 0.5)
	viper.SetDefault("detector.minTrackingConf", 0.5)

	viper.SetDefault("screen.width", 0)
	viper.SetDefault("screen.height", 0)

	viper.SetDefault("gesture.clickMode", "repeat")
	viper.SetDefault("dispatch.evaluateControl", "evaluate")

	viper.SetDefault("plugins.dir", filepath.Join(dataDir, "plugins"))
	viper.SetDefault("plugins.timeout", "5s")

	viper.SetDefault("tray.enabled", true)
}

// Load sets defaults, reads mudra.yaml from configDir when present, applies
// MUDRA_* environment overrides and returns the typed result.
func Load(configDir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	viper.SetConfigType("yaml")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the poll loop cannot run with.
func (c Config) Validate() error {
	if c.Capture.Interval <= 0 {
		return fmt.Errorf("capture.interval must be positive, got %s", c.Capture.Interval)
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("detector.maxHands must be at least 1, got %d", c.Detector.MaxHands)
	}
	switch c.Gesture.ClickMode {
	case "repeat", "edge":
	default:
		return fmt.Errorf("gesture.clickMode must be repeat or edge, got %q", c.Gesture.ClickMode)
	}
	if c.Dispatch.EvaluateControl == "" {
		return errors.New("dispatch.evaluateControl must not be empty")
	}
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
