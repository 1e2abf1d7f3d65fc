package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/gbujak/flog/pkg/config"
)

func TestPreParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantConfig  string
		wantVerbose bool
	}{
		{name: "no flags", args: []string{"flog", "log"}},
		{name: "long config", args: []string{"flog", "--config", "/tmp/c.toml", "log"}, wantConfig: "/tmp/c.toml"},
		{name: "config equals", args: []string{"flog", "--config=/tmp/c.toml"}, wantConfig: "/tmp/c.toml"},
		{name: "short config attached", args: []string{"flog", "-C/tmp/c.toml"}, wantConfig: "/tmp/c.toml"},
		{name: "short config equals", args: []string{"flog", "-C=/tmp/c.toml"}, wantConfig: "/tmp/c.toml"},
		{name: "verbose", args: []string{"flog", "-v", "branches"}, wantVerbose: true},
		{name: "stops at subcommand", args: []string{"flog", "log", "--verbose"}},
		{name: "stops at marker", args: []string{"flog", "--", "-v"}},
		{name: "dangling config", args: []string{"flog", "--config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotConfig, gotVerbose := PreParseGlobalFlags(tt.args)
			if gotConfig != tt.wantConfig {
				t.Errorf("config = %q, want %q", gotConfig, tt.wantConfig)
			}
			if gotVerbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", gotVerbose, tt.wantVerbose)
			}
		})
	}
}

func TestInitConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GO_TEST", "true")
	t.Cleanup(func() {
		Reset()
		viper.Reset()
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, gotPath, err := InitConfig(path, false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if cfg.DefaultProject != "PROJ" {
		t.Errorf("DefaultProject = %q, want PROJ", cfg.DefaultProject)
	}
}

func TestInitConfig_ReadsFileAndEnv(t *testing.T) {
	t.Setenv("GO_TEST", "true")
	t.Setenv("FLOG_DEFAULT_PROJECT", "ENV")
	t.Cleanup(func() {
		Reset()
		viper.Reset()
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	saved := config.Default()
	saved.AddRepoDir("/src")
	saved.DefaultProject = "FILE"
	if err := config.Save(saved, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, _, err := InitConfig(path, false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if len(cfg.RepoDirs) != 1 || cfg.RepoDirs[0] != "/src" {
		t.Errorf("RepoDirs = %v, want [/src]", cfg.RepoDirs)
	}
	if cfg.DefaultProject != "ENV" {
		t.Errorf("DefaultProject = %q, environment should take precedence", cfg.DefaultProject)
	}
}

func TestInitConfig_MalformedFile(t *testing.T) {
	t.Setenv("GO_TEST", "true")
	t.Cleanup(func() {
		Reset()
		viper.Reset()
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("repo_dirs = [unterminated"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, _, err := InitConfig(path, false); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestNewLogger(t *testing.T) {
	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("debug output written without verbose: %q", quiet.String())
	}

	var loud bytes.Buffer
	NewLogger(&loud, true).Debug("shown", "path", "/src/repo")
	if !strings.Contains(loud.String(), "path=/src/repo") {
		t.Errorf("verbose logger output = %q", loud.String())
	}
}
