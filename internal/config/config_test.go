package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/xformsync/internal/transform"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test engine defaults
	if cfg.Engine.PushToPrim {
		t.Error("expected push_to_prim to be false by default")
	}
	if !cfg.Engine.ReadAnimatedValues {
		t.Error("expected read_animated_values to be true by default")
	}
	if cfg.Engine.InsertPrecision != "float" {
		t.Errorf("expected insert precision 'float', got %s", cfg.Engine.InsertPrecision)
	}

	// Test stage defaults
	if cfg.Stage.Time != "default" {
		t.Errorf("expected time 'default', got %s", cfg.Stage.Time)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
engine:
  push_to_prim: true
  read_animated_values: false
  insert_precision: double

stage:
  time: "12.5"
  output: out.yaml

logging:
  level: "debug"
  log_file: "xformsync.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if !cfg.Engine.PushToPrim {
		t.Error("expected push_to_prim to be true")
	}
	if cfg.Engine.ReadAnimatedValues {
		t.Error("expected read_animated_values to be false")
	}
	if cfg.Engine.InsertPrecision != "double" {
		t.Errorf("expected precision double, got %s", cfg.Engine.InsertPrecision)
	}

	tc, err := cfg.Stage.TimeCode()
	if err != nil {
		t.Fatalf("unexpected time error: %v", err)
	}
	if tc.IsDefault() || tc.Value() != 12.5 {
		t.Errorf("expected time 12.5, got %v", tc)
	}
	if cfg.Stage.Output != "out.yaml" {
		t.Errorf("expected output out.yaml, got %s", cfg.Stage.Output)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "xformsync.log" {
		t.Errorf("expected log file 'xformsync.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
engine:
  push_to_prim: not a bool
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"precision", func(c *Config) { c.Engine.InsertPrecision = "quad" }},
		{"time", func(c *Config) { c.Stage.Time = "soon" }},
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Engine.PushToPrim = true
	cfg.Engine.ReadAnimatedValues = false

	opts, err := cfg.Engine.Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tm := transform.New(opts...)
	if !tm.PushToPrimEnabled() {
		t.Error("expected push to prim to be enabled")
	}
	if tm.ReadAnimatedValues() {
		t.Error("expected read animated values to be disabled")
	}

	cfg.Engine.InsertPrecision = "quad"
	if _, err := cfg.Engine.Options(); err == nil {
		t.Error("expected unknown precision to fail")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(""); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("engine:\n  push_to_prim: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(""); path != "config.yaml" {
		t.Errorf("expected config.yaml, got %q", path)
	}

	if err := os.WriteFile(ProjectFile, []byte("engine:\n  push_to_prim: true\n"), 0644); err != nil {
		t.Fatalf("failed to create project config: %v", err)
	}
	if path := findConfigFile(""); path != ProjectFile {
		t.Errorf("expected %s to win over config.yaml, got %q", ProjectFile, path)
	}
}

func TestFindConfigFileNextToStage(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	if err := os.WriteFile(ProjectFile, []byte("stage:\n  time: \"1\"\n"), 0644); err != nil {
		t.Fatalf("failed to create project config: %v", err)
	}

	sceneDir := filepath.Join(tmpDir, "shots", "a")
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		t.Fatalf("failed to create scene dir: %v", err)
	}
	stageConfig := filepath.Join(sceneDir, ProjectFile)
	if err := os.WriteFile(stageConfig, []byte("stage:\n  time: \"8\"\n"), 0644); err != nil {
		t.Fatalf("failed to create stage config: %v", err)
	}

	stage := filepath.Join(sceneDir, "shot.yaml")
	if path := findConfigFile(stage); path != stageConfig {
		t.Errorf("expected %s, got %q", stageConfig, path)
	}

	cfg, err := LoadFor(stage)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Stage.Time != "8" {
		t.Errorf("expected time 8 from the stage config, got %s", cfg.Stage.Time)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  push_to_primm: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("unexpected error for empty file: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty file changed config: %+v", *cfg)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "push flag",
			setup: func() {
				*flagPush = true
			},
			verify: func(cfg *Config) {
				if !cfg.Engine.PushToPrim {
					t.Error("expected push_to_prim with push flag")
				}
			},
			teardown: func() {
				*flagPush = false
			},
		},
		{
			name: "no-read-animated flag",
			setup: func() {
				*flagNoReadAnimated = true
			},
			verify: func(cfg *Config) {
				if cfg.Engine.ReadAnimatedValues {
					t.Error("expected read_animated_values to be false")
				}
			},
			teardown: func() {
				*flagNoReadAnimated = false
			},
		},
		{
			name: "precision and time flags",
			setup: func() {
				*flagPrecision = "half"
				*flagTime = "3"
			},
			verify: func(cfg *Config) {
				if cfg.Engine.InsertPrecision != "half" {
					t.Errorf("expected precision half, got %s", cfg.Engine.InsertPrecision)
				}
				if cfg.Stage.Time != "3" {
					t.Errorf("expected time 3, got %s", cfg.Stage.Time)
				}
			},
			teardown: func() {
				*flagPrecision = ""
				*flagTime = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
engine:
  insert_precision: double
stage:
  time: "4"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagPrecision = "half"
	defer func() {
		*flagConfig = ""
		*flagPrecision = ""
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Precision should be from flag, not file
	if cfg.Engine.InsertPrecision != "half" {
		t.Errorf("expected precision half from flag, got %s", cfg.Engine.InsertPrecision)
	}

	// Time should be from file since no flag override
	if cfg.Stage.Time != "4" {
		t.Errorf("expected time 4 from file, got %s", cfg.Stage.Time)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Engine.PushToPrim = true
	cfg.Stage.Output = "edited.yaml"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", *cfg, *loaded)
	}
}
