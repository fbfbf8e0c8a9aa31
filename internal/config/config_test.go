package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		Paths: PathsConfig{
			Inbox:   "data/inbox",
			Uploads: "data/uploads",
		},
		Transcription: TranscriptionConfig{
			Endpoint: "http://localhost:8080/transcribe",
		},
		Database: DatabaseConfig{
			DSN: "host=localhost user=meetmerge dbname=meetmerge",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing inbox",
			mutate:  func(c *Config) { c.Paths.Inbox = "" },
			wantErr: true,
		},
		{
			name:    "missing uploads",
			mutate:  func(c *Config) { c.Paths.Uploads = "" },
			wantErr: true,
		},
		{
			name:    "missing transcription endpoint",
			mutate:  func(c *Config) { c.Transcription.Endpoint = "" },
			wantErr: true,
		},
		{
			name:    "missing database dsn",
			mutate:  func(c *Config) { c.Database.DSN = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.FFmpeg.BinaryPath != "ffmpeg" {
		t.Errorf("BinaryPath = %v, want ffmpeg", cfg.FFmpeg.BinaryPath)
	}
	if cfg.Transcription.WindowSec != 300 {
		t.Errorf("WindowSec = %v, want 300", cfg.Transcription.WindowSec)
	}
	if cfg.Transcription.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %v, want 4", cfg.Transcription.MaxConcurrent)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %v, want gemini-2.5-flash", cfg.Gemini.Model)
	}
	if cfg.Paths.Temp != "data/temp" {
		t.Errorf("Temp = %v, want data/temp", cfg.Paths.Temp)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  inbox: "data/inbox"
  uploads: "data/uploads"
  merged: "data/merged"

transcription:
  endpoint: "http://localhost:8080/transcribe"
  language: "en"
  window_seconds: 120

database:
  dsn: "host=localhost user=meetmerge dbname=meetmerge"

logging:
  level: "info"
  format: "console"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Inbox != "data/inbox" {
		t.Errorf("Inbox = %v, want data/inbox", cfg.Paths.Inbox)
	}
	if cfg.Transcription.WindowSec != 120 {
		t.Errorf("WindowSec = %v, want 120", cfg.Transcription.WindowSec)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MEETMERGE_DB_DSN", "host=prod")

	cfg := validConfig()
	cfg.applyEnv()

	if cfg.Database.DSN != "host=prod" {
		t.Errorf("DSN = %v, want host=prod", cfg.Database.DSN)
	}
}
