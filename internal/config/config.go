package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths         PathsConfig         `yaml:"paths"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Database      DatabaseConfig      `yaml:"database"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
}

type PathsConfig struct {
	Inbox   string `yaml:"inbox"`   // watched drop directory for incoming chunk files
	Uploads string `yaml:"uploads"` // per meeting/speaker chunk storage
	Merged  string `yaml:"merged"`  // merged sequence artifacts
	Temp    string `yaml:"temp"`    // scratch space for concat lists and split windows
	Output  string `yaml:"output"`  // transcripts, summaries, docx exports
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	AudioFormat string `yaml:"audio_format"`
}

type TranscriptionConfig struct {
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	Language      string `yaml:"language"`
	TimeoutSec    int    `yaml:"timeout"`
	MaxRetries    int    `yaml:"max_retries"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	WindowSec     int    `yaml:"window_seconds"` // artifacts longer than this are split
}

// Timeout returns the request timeout as a duration.
func (t TranscriptionConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSec) * time.Second
}

// Window returns the sub-window size as a duration.
func (t TranscriptionConfig) Window() time.Duration {
	return time.Duration(t.WindowSec) * time.Second
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads, parses and validates the configuration file. Environment
// variables override file values for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// applyEnv pulls secrets from the environment so they stay out of config.yaml.
func (c *Config) applyEnv() {
	if v := os.Getenv("MEETMERGE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("MEETMERGE_TRANSCRIPTION_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && len(c.Gemini.APIKeys) == 0 {
		c.Gemini.APIKeys = []string{v}
	}
}

func (c *Config) Validate() error {
	if c.Paths.Inbox == "" {
		return fmt.Errorf("paths.inbox is required")
	}
	if c.Paths.Uploads == "" {
		return fmt.Errorf("paths.uploads is required")
	}
	if c.Transcription.Endpoint == "" {
		return fmt.Errorf("transcription.endpoint is required")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if c.Paths.Merged == "" {
		c.Paths.Merged = "data/merged"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.AudioFormat == "" {
		c.FFmpeg.AudioFormat = "wav"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.TimeoutSec == 0 {
		c.Transcription.TimeoutSec = 60
	}
	if c.Transcription.MaxRetries == 0 {
		c.Transcription.MaxRetries = 3
	}
	if c.Transcription.MaxConcurrent == 0 {
		c.Transcription.MaxConcurrent = 4
	}
	if c.Transcription.WindowSec == 0 {
		c.Transcription.WindowSec = 300
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 4
	}

	return nil
}
