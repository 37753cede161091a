package config_test

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/eykd/pagemark-go/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    config.Config
		wantErr bool
	}{
		{name: "empty", yaml: "", want: config.Default()},
		{name: "template", yaml: config.Template, want: config.Default()},
		{name: "overrides", yaml: "imageMaxBytes: 1024\nlogLevel: debug\n",
			want: config.Config{ImageMaxBytes: 1024, LogLevel: "debug"}},
		{name: "partial", yaml: "logLevel: error\n",
			want: config.Config{ImageMaxBytes: config.DefaultImageMaxBytes, LogLevel: "error"}},
		{name: "unknown key", yaml: "colour: red\n", wantErr: true},
		{name: "bad level", yaml: "logLevel: loud\n", wantErr: true},
		{name: "zero limit", yaml: "imageMaxBytes: 0\n", wantErr: true},
		{name: "not yaml", yaml: "imageMaxBytes: [\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	got, err := config.Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != config.Default() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.Filename), []byte("logLevel: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := config.Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Level() != slog.LevelInfo {
		t.Errorf("Level() = %v, want info", got.Level())
	}
}

func TestLoad_UsesReadFunc(t *testing.T) {
	var asked string
	read := func(name string) ([]byte, error) {
		asked = name
		return []byte("imageMaxBytes: 1024\n"), nil
	}
	got, err := config.Load("/proj", read)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join("/proj", config.Filename); asked != want {
		t.Errorf("read %q, want %q", asked, want)
	}
	if got.ImageMaxBytes != 1024 {
		t.Errorf("ImageMaxBytes = %d, want 1024", got.ImageMaxBytes)
	}
}

func TestLoad_ReadError(t *testing.T) {
	read := func(string) ([]byte, error) { return nil, fs.ErrPermission }
	if _, err := config.Load("/proj", read); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Load() error = %v, want fs.ErrPermission", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ParseLevel(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
	if _, err := config.ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}
