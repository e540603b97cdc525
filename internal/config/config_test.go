package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.MinConfidence != 0.6 {
		t.Errorf("Expected default min confidence 0.6, got %v", cfg.MinConfidence)
	}
	if cfg.Style != StyleBox {
		t.Errorf("Expected default style %q, got %q", StyleBox, cfg.Style)
	}
	if cfg.TargetClass != 14 {
		t.Errorf("Expected default target class 14, got %d", cfg.TargetClass)
	}
	if cfg.ActuatorPin != 13 || cfg.ActuatorToggles != 6 {
		t.Errorf("Expected pin 13 with 6 toggles, got pin %d with %d toggles", cfg.ActuatorPin, cfg.ActuatorToggles)
	}
	if cfg.ActuatorInterval != time.Second || cfg.ActuatorCooldown != 5*time.Second {
		t.Errorf("Unexpected timings: interval %v cooldown %v", cfg.ActuatorInterval, cfg.ActuatorCooldown)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TARGET_CLASS", "0")
	t.Setenv("ACTUATOR_COOLDOWN", "250ms")
	t.Setenv("ACTUATOR_PORTS", "/dev/ttyACM0, /dev/ttyACM1,,")
	t.Setenv("HEADLESS", "true")
	t.Setenv("ACTUATOR_TOGGLES", "not-a-number")

	cfg := Load()

	if cfg.TargetClass != 0 {
		t.Errorf("Expected target class 0, got %d", cfg.TargetClass)
	}
	if cfg.ActuatorCooldown != 250*time.Millisecond {
		t.Errorf("Expected cooldown 250ms, got %v", cfg.ActuatorCooldown)
	}
	if len(cfg.ActuatorPorts) != 2 || cfg.ActuatorPorts[1] != "/dev/ttyACM1" {
		t.Errorf("Unexpected ports: %v", cfg.ActuatorPorts)
	}
	if !cfg.Headless {
		t.Error("Expected headless mode")
	}
	if cfg.ActuatorToggles != 6 {
		t.Errorf("Invalid value should fall back to default, got %d", cfg.ActuatorToggles)
	}
}

func TestBindFlags(t *testing.T) {
	cfg := Load()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(fs)

	args := []string{"-cfg", "yolo.cfg", "-model", "yolo.weights", "-style", "line", "-min_confidence", "0.8", "-camera_device", "2"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.ModelConfig != "yolo.cfg" || cfg.ModelWeights != "yolo.weights" {
		t.Errorf("Unexpected model paths: %q %q", cfg.ModelConfig, cfg.ModelWeights)
	}
	if cfg.Style != StyleLine {
		t.Errorf("Expected style line, got %q", cfg.Style)
	}
	if cfg.MinConfidence != 0.8 {
		t.Errorf("Expected min confidence 0.8, got %v", cfg.MinConfidence)
	}
	if cfg.CameraDevice != 2 {
		t.Errorf("Expected camera 2, got %d", cfg.CameraDevice)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad style", func(c *Config) { c.Style = "circle" }},
		{"confidence above one", func(c *Config) { c.MinConfidence = 1.5 }},
		{"negative confidence", func(c *Config) { c.MinConfidence = -0.1 }},
		{"zero toggles", func(c *Config) { c.ActuatorToggles = 0 }},
		{"negative cooldown", func(c *Config) { c.ActuatorCooldown = -time.Second }},
		{"negative pin", func(c *Config) { c.ActuatorPin = -1 }},
		{"empty input size", func(c *Config) { c.InputWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestApplySettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
gate:
  target_class: 0
  cooldown: 2s
actuator:
  pin: 7
  interval: 500ms
  ports: ["/dev/ttyUSB0"]
  pattern: USB
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	cfg := Load()
	if err := cfg.ApplySettingsFile(path); err != nil {
		t.Fatalf("ApplySettingsFile failed: %v", err)
	}

	if cfg.TargetClass != 0 {
		t.Errorf("Expected target class 0, got %d", cfg.TargetClass)
	}
	if cfg.ActuatorCooldown != 2*time.Second {
		t.Errorf("Expected cooldown 2s, got %v", cfg.ActuatorCooldown)
	}
	if cfg.ActuatorPin != 7 || cfg.ActuatorInterval != 500*time.Millisecond {
		t.Errorf("Unexpected actuator settings: pin %d interval %v", cfg.ActuatorPin, cfg.ActuatorInterval)
	}
	if cfg.ActuatorPattern != "USB" || len(cfg.ActuatorPorts) != 1 {
		t.Errorf("Unexpected port settings: %q %v", cfg.ActuatorPattern, cfg.ActuatorPorts)
	}
	// Keys absent from the file keep their previous values.
	if cfg.ActuatorToggles != 6 {
		t.Errorf("Expected toggles to stay 6, got %d", cfg.ActuatorToggles)
	}
}

func TestApplySettingsFile_Errors(t *testing.T) {
	cfg := Load()
	if err := cfg.ApplySettingsFile(""); err != nil {
		t.Errorf("Empty path should be a no-op, got %v", err)
	}
	if err := cfg.ApplySettingsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("gate: [unterminated"), 0644)
	if err := cfg.ApplySettingsFile(path); err == nil {
		t.Error("Expected parse error")
	}
}
