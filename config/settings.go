package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const settingsName = "drivetrain"

type LogSettings struct {
	Level string `mapstructure:"level"`
	// File receives the log output, stderr when empty
	File     string `mapstructure:"file"`
	Encoding string `mapstructure:"encoding"`
}

type TelemetrySettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	// Every records one sample each Every ticks
	Every int `mapstructure:"every"`
}

// Settings are the application level options of the driving demo.
type Settings struct {
	Log LogSettings `mapstructure:"log"`

	TickRate    int     `mapstructure:"tickRate"`
	FrameRate   int     `mapstructure:"frameRate"`
	TuningPath  string  `mapstructure:"tuningPath"`
	Scale       float64 `mapstructure:"scale"`
	SoftFollow  bool    `mapstructure:"softFollow"`
	WatchTuning bool    `mapstructure:"watchTuning"`

	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "drivetrain.log")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("tickRate", 60)
	v.SetDefault("frameRate", 30)
	v.SetDefault("tuningPath", "")
	v.SetDefault("scale", 1.0)
	v.SetDefault("softFollow", false)
	v.SetDefault("watchTuning", true)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.path", "telemetry.db")
	v.SetDefault("telemetry.every", 6)
}

// LoadSettings reads drivetrain.yaml from configDir. A missing file leaves every default in place;
// DRIVETRAIN_* environment variables override both.
func LoadSettings(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(settingsName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(settingsName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s Settings) Validate() error {
	switch {
	case s.TickRate <= 0:
		return fmt.Errorf("config: tick rate must be positive, got %d", s.TickRate)
	case s.FrameRate <= 0:
		return fmt.Errorf("config: frame rate must be positive, got %d", s.FrameRate)
	case s.Scale <= 0:
		return fmt.Errorf("config: scale must be positive, got %v", s.Scale)
	case s.Telemetry.Enabled && s.Telemetry.Every <= 0:
		return fmt.Errorf("config: telemetry.every must be positive, got %d", s.Telemetry.Every)
	}
	return nil
}

// TickInterval is the fixed simulation step.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

func (s Settings) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FrameRate)
}
