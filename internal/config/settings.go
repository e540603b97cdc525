package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML overlay for gate and actuator tuning.
// Only the keys present in the file override the environment.
type Settings struct {
	Gate struct {
		TargetClass *int           `yaml:"target_class"`
		TargetLabel *string        `yaml:"target_label"`
		Cooldown    *time.Duration `yaml:"cooldown"`
	} `yaml:"gate"`
	Actuator struct {
		Pin       *int           `yaml:"pin"`
		Toggles   *int           `yaml:"toggles"`
		Interval  *time.Duration `yaml:"interval"`
		Ports     []string       `yaml:"ports"`
		Pattern   *string        `yaml:"pattern"`
		Baud      *int           `yaml:"baud"`
		Settle    *time.Duration `yaml:"settle"`
		Reconnect *time.Duration `yaml:"reconnect"`
	} `yaml:"actuator"`
}

// ApplySettingsFile merges the YAML file at path into c. An empty path is a no-op.
func (c *Config) ApplySettingsFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	c.apply(&s)
	return nil
}

func (c *Config) apply(s *Settings) {
	setInt(&c.TargetClass, s.Gate.TargetClass)
	setString(&c.TargetLabel, s.Gate.TargetLabel)
	setDuration(&c.ActuatorCooldown, s.Gate.Cooldown)

	setInt(&c.ActuatorPin, s.Actuator.Pin)
	setInt(&c.ActuatorToggles, s.Actuator.Toggles)
	setDuration(&c.ActuatorInterval, s.Actuator.Interval)
	if len(s.Actuator.Ports) > 0 {
		c.ActuatorPorts = s.Actuator.Ports
	}
	setString(&c.ActuatorPattern, s.Actuator.Pattern)
	setInt(&c.ActuatorBaud, s.Actuator.Baud)
	setDuration(&c.ActuatorSettle, s.Actuator.Settle)
	setDuration(&c.ActuatorReconnect, s.Actuator.Reconnect)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
