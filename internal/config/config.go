package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	General GeneralConfig `toml:"general"`
	Budget  BudgetConfig  `toml:"budget"`
	Models  ModelsConfig  `toml:"models"`
	Paths   PathsConfig   `toml:"paths"`
	Monitor MonitorConfig `toml:"monitor"`
	Logging LoggingConfig `toml:"logging"`
}

type GeneralConfig struct {
	Interval int    `toml:"interval"` // live view refresh, seconds
	Language string `toml:"language"`
	Color    bool   `toml:"color"`
}

type BudgetConfig struct {
	MaxTokens        int     `toml:"max_tokens"`
	ResetHours       int     `toml:"reset_hours"`
	CharsPerToken    int     `toml:"chars_per_token"`
	TokenBuffer      float64 `toml:"token_buffer"`
	TokensPerRequest int     `toml:"tokens_per_request"`
	RequestsPerHour  int     `toml:"requests_per_hour"`
}

type ModelsConfig struct {
	Multipliers         map[string]float64 `toml:"multipliers"`
	DetectCommand       []string           `toml:"detect_command"`
	DetectProcesses     bool               `toml:"detect_processes"`
	OpusThreshold       int                `toml:"opus_threshold"`
	OpusBurstThreshold  int                `toml:"opus_burst_threshold"`
	OpusBurstMaxUpdates int                `toml:"opus_burst_max_updates"`
	HaikuThreshold      int                `toml:"haiku_threshold"`
	HaikuMinUpdates     int                `toml:"haiku_min_updates"`
}

type PathsConfig struct {
	Dir         string `toml:"dir"`
	UsageFile   string `toml:"usage_file"`
	LogFile     string `toml:"log_file"`
	RequestFile string `toml:"request_file"`
	PIDFile     string `toml:"pid_file"`
}

type MonitorConfig struct {
	Interval     int  `toml:"interval"`      // seconds between probe rounds
	ProbeTimeout int  `toml:"probe_timeout"` // seconds per probe
	Clipboard    bool `toml:"clipboard"`
	Processes    bool `toml:"processes"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty logs to stderr
}

func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Interval: 10,
			Language: "en",
			Color:    true,
		},
		Budget: BudgetConfig{
			MaxTokens:        220_000,
			ResetHours:       5,
			CharsPerToken:    4,
			TokenBuffer:      1.1,
			TokensPerRequest: 3000,
			RequestsPerHour:  12,
		},
		Models: ModelsConfig{
			DetectCommand:       []string{"claude", "/model"},
			DetectProcesses:     true,
			OpusThreshold:       80_000,
			OpusBurstThreshold:  50_000,
			OpusBurstMaxUpdates: 10,
			HaikuThreshold:      15_000,
			HaikuMinUpdates:     5,
		},
		Paths: PathsConfig{
			Dir:         defaultDataDir(),
			UsageFile:   "token_usage.json",
			LogFile:     "claude_usage.log",
			RequestFile: "token_update_request.json",
			PIDFile:     "token_monitor.pid",
		},
		Monitor: MonitorConfig{
			Interval:     30,
			ProbeTimeout: 5,
			Clipboard:    true,
			Processes:    true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tokenwatch", "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tokenwatch"
	}
	return filepath.Join(home, ".tokenwatch")
}

func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // use defaults
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate rejects settings that would break window or budget math.
func (c Config) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"budget.max_tokens", c.Budget.MaxTokens > 0},
		{"budget.reset_hours", c.Budget.ResetHours > 0},
		{"budget.chars_per_token", c.Budget.CharsPerToken > 0},
		{"budget.token_buffer", c.Budget.TokenBuffer > 0},
		{"budget.tokens_per_request", c.Budget.TokensPerRequest > 0},
		{"budget.requests_per_hour", c.Budget.RequestsPerHour > 0},
		{"general.interval", c.General.Interval > 0},
		{"monitor.interval", c.Monitor.Interval > 0},
		{"monitor.probe_timeout", c.Monitor.ProbeTimeout > 0},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, ch.name)
		}
	}
	for name, m := range c.Models.Multipliers {
		if m <= 0 {
			return fmt.Errorf("%w: models.multipliers.%s must be positive", ErrInvalid, name)
		}
	}
	return nil
}

// Window is the budget window length.
func (b BudgetConfig) Window() time.Duration {
	return time.Duration(b.ResetHours) * time.Hour
}

func (m MonitorConfig) IntervalDuration() time.Duration {
	return time.Duration(m.Interval) * time.Second
}

func (m MonitorConfig) ProbeTimeoutDuration() time.Duration {
	return time.Duration(m.ProbeTimeout) * time.Second
}

func (p PathsConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Dir, name)
}

func (p PathsConfig) UsagePath() string   { return p.resolve(p.UsageFile) }
func (p PathsConfig) LogPath() string     { return p.resolve(p.LogFile) }
func (p PathsConfig) RequestPath() string { return p.resolve(p.RequestFile) }
func (p PathsConfig) PIDPath() string     { return p.resolve(p.PIDFile) }
