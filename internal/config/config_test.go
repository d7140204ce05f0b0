package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeStdio {
		t.Errorf("expected default mode %q, got %q", ModeStdio, cfg.Mode)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("expected default max file size %d, got %d", DefaultMaxFileSize, cfg.MaxFileSize)
	}
	if cfg.TemplateDirectory != "" {
		t.Errorf("expected no default template directory, got %q", cfg.TemplateDirectory)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Mode = "pipe" },
			wantErr: "mode",
		},
		{
			name: "bad port in server mode",
			mutate: func(c *Config) {
				c.Mode = ModeServer
				c.Port = 0
			},
			wantErr: "port",
		},
		{
			name:    "port ignored in stdio mode",
			mutate:  func(c *Config) { c.Port = 0 },
		},
		{
			name:    "empty pdf directory",
			mutate:  func(c *Config) { c.PDFDirectory = "" },
			wantErr: "PDF directory",
		},
		{
			name:    "missing template directory",
			mutate:  func(c *Config) { c.TemplateDirectory = "/nonexistent/templates" },
			wantErr: "template directory",
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "file size",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: "log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CreatesMissingPDFDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PDFDirectory = filepath.Join(t.TempDir(), "incoming")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9000

	if got := cfg.Address(); got != "0.0.0.0:9000" {
		t.Errorf("expected 0.0.0.0:9000, got %s", got)
	}
}

func TestModeHelpers(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("default config should be stdio mode")
	}

	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("server mode flags inconsistent")
	}
}
