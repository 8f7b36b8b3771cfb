package pixelcopy

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PrivateReadback {
		t.Error("fast path should be off by default")
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelWarn {
		t.Errorf("Level() = %v, %v, want warn", l, err)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
private_readback = true
backend = "software"
log_level = "debug"
`))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{PrivateReadback: true, Backend: "software", LogLevel: "debug"}
	if cfg != want {
		t.Errorf("ParseConfig = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`backend = "wgpu"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" || cfg.PrivateReadback {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":  `fast = true`,
		"wrong type":   `private_readback = "yes"`,
		"bad level":    `log_level = "loud"`,
		"invalid toml": `private_readback =`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(doc)); err == nil {
				t.Error("ParseConfig should fail")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || cfg != DefaultConfig() {
		t.Errorf("LoadConfig(\"\") = %+v, %v, want defaults", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "pixelcopy.toml")
	if err := os.WriteFile(path, []byte("private_readback = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.PrivateReadback {
		t.Error("private_readback not loaded")
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPrivateReadback, "1")
	t.Setenv(EnvBackend, " software ")
	t.Setenv(EnvLogLevel, "info")

	cfg, err := ConfigFromEnv(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := Config{PrivateReadback: true, Backend: "software", LogLevel: "info"}
	if cfg != want {
		t.Errorf("ConfigFromEnv = %+v, want %+v", cfg, want)
	}
}

func TestConfigFromEnvInvalid(t *testing.T) {
	t.Setenv(EnvPrivateReadback, "maybe")
	if _, err := ConfigFromEnv(DefaultConfig()); err == nil {
		t.Error("invalid bool should fail")
	}
}

func TestWithConfigIsCopied(t *testing.T) {
	cfg := Config{PrivateReadback: true}
	r := New(nil, WithConfig(cfg))
	cfg.PrivateReadback = false
	if !r.Config().PrivateReadback {
		t.Error("Readback should keep its own copy of the config")
	}
}
