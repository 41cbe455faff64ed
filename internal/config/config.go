// Package config provides Viper-based configuration loading for the player.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig locates a game installation and sets up a new game.
type GameConfig struct {
	// Title names the game, for logs.
	Title string `mapstructure:"title"`
	// DataDir is the installation root. Relative directories below resolve
	// against it.
	DataDir   string `mapstructure:"data_dir"`
	ScriptDir string `mapstructure:"script_dir"`
	SoundDir  string `mapstructure:"sound_dir"`
	ImageDir  string `mapstructure:"image_dir"`
	// HintFile is the file holding positional hint content.
	HintFile string `mapstructure:"hint_file"`
	// HintRules is the YAML rule table used to pick hints.
	HintRules string `mapstructure:"hint_rules"`

	StartScene         uint16 `mapstructure:"start_scene"`
	StartDifficulty    int    `mapstructure:"start_difficulty"`
	HintsPerDifficulty []int  `mapstructure:"hints_per_difficulty"`
	// PickupSound is played when an item is taken from a scene. Empty = silent.
	PickupSound string `mapstructure:"pickup_sound"`
}

// Path resolves dir against DataDir unless dir is absolute.
//
// Postcondition: Returns a cleaned path.
func (g GameConfig) Path(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(g.DataDir, dir)
}

// EngineConfig holds scene driver settings.
type EngineConfig struct {
	// TickInterval is the time between record passes.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// SampleRate is the audio mixer rate in Hz.
	SampleRate int `mapstructure:"sample_rate"`
	// AudioOutput is "none" for headless mixing or "speaker".
	AudioOutput string `mapstructure:"audio_output"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// difficulties is the number of difficulty levels a game defines.
const difficulties = 3

func validateGame(g GameConfig) error {
	var errs []string
	if g.DataDir == "" {
		errs = append(errs, "game.data_dir must not be empty")
	}
	if g.ScriptDir == "" {
		errs = append(errs, "game.script_dir must not be empty")
	}
	if g.StartScene == 9999 {
		errs = append(errs, "game.start_scene must not be 9999")
	}
	if g.StartDifficulty < 0 || g.StartDifficulty >= difficulties {
		errs = append(errs, fmt.Sprintf("game.start_difficulty must be 0-%d, got %d", difficulties-1, g.StartDifficulty))
	}
	if len(g.HintsPerDifficulty) != difficulties {
		errs = append(errs, fmt.Sprintf("game.hints_per_difficulty must have %d entries, got %d", difficulties, len(g.HintsPerDifficulty)))
	}
	for i, n := range g.HintsPerDifficulty {
		if n < 0 {
			errs = append(errs, fmt.Sprintf("game.hints_per_difficulty[%d] must be >= 0, got %d", i, n))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("engine.tick_interval must be > 0, got %s", e.TickInterval))
	}
	if e.SampleRate < 8000 || e.SampleRate > 192000 {
		errs = append(errs, fmt.Sprintf("engine.sample_rate must be 8000-192000, got %d", e.SampleRate))
	}
	validOutputs := map[string]bool{"none": true, "speaker": true}
	if !validOutputs[e.AudioOutput] {
		errs = append(errs, fmt.Sprintf("engine.audio_output must be one of [none, speaker], got %q", e.AudioOutput))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with NANCY_ prefix
	v.SetEnvPrefix("NANCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.title", "Secrets Can Kill")
	v.SetDefault("game.data_dir", ".")
	v.SetDefault("game.script_dir", "ciftree")
	v.SetDefault("game.sound_dir", "sound")
	v.SetDefault("game.image_dir", "ciftree")
	v.SetDefault("game.hint_file", "game.exe")
	v.SetDefault("game.hint_rules", "content/hints/sample.yaml")
	v.SetDefault("game.start_scene", 0)
	v.SetDefault("game.start_difficulty", 0)
	v.SetDefault("game.hints_per_difficulty", []int{10, 6, 3})

	v.SetDefault("engine.tick_interval", "16ms")
	v.SetDefault("engine.sample_rate", 22050)
	v.SetDefault("engine.audio_output", "none")
}
