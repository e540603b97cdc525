package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StyleBox  = "box"
	StyleLine = "line"
)

type Config struct {
	// Command line surface
	Help          bool
	ModelConfig   string // Darknet .cfg
	ModelWeights  string // Darknet .weights
	CameraDevice  int
	Source        string // video or image; empty means camera
	Style         string // box | line
	MinConfidence float64
	ClassNames    string
	SettingsFile  string

	// Detection
	TargetClass int
	TargetLabel string
	FrameWidth  int
	FrameHeight int
	InputWidth  int
	InputHeight int

	// Actuator
	ActuatorPin       int
	ActuatorToggles   int
	ActuatorInterval  time.Duration
	ActuatorCooldown  time.Duration
	ActuatorPorts     []string // explicit candidates, empty means scan /dev
	ActuatorPattern   string   // device name must contain this
	ActuatorBaud      int
	ActuatorSettle    time.Duration
	ActuatorReconnect time.Duration // 0 disables reconnection

	// Ambient
	Headless              bool
	Debug                 bool
	LogDirectory          string
	DatabasePath          string
	SnapshotDirectory     string
	SnapshotLimit         int
	SnapshotFlushInterval time.Duration
	HTTPPort              int    // 0 disables the live view server
	HTTPToken             string // bearer token for the HTTP API, empty disables the check
	MQTTBroker            string
	MQTTClientID          string
	MQTTTopic             string
}

// Load reads an optional .env file and builds the configuration from the
// environment. Command line flags are applied afterwards with BindFlags.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CameraDevice:  0,
		Style:         StyleBox,
		MinConfidence: 0.6,
		SettingsFile:  getEnv("SETTINGS_FILE", ""),

		TargetClass: getEnvAsInt("TARGET_CLASS", 14),
		TargetLabel: getEnv("TARGET_LABEL", "Person"),
		FrameWidth:  getEnvAsInt("FRAME_WIDTH", 320),
		FrameHeight: getEnvAsInt("FRAME_HEIGHT", 240),
		InputWidth:  getEnvAsInt("INPUT_WIDTH", 320),
		InputHeight: getEnvAsInt("INPUT_HEIGHT", 240),

		ActuatorPin:       getEnvAsInt("ACTUATOR_PIN", 13),
		ActuatorToggles:   getEnvAsInt("ACTUATOR_TOGGLES", 6),
		ActuatorInterval:  getEnvAsDuration("ACTUATOR_INTERVAL", time.Second),
		ActuatorCooldown:  getEnvAsDuration("ACTUATOR_COOLDOWN", 5*time.Second),
		ActuatorPorts:     getEnvAsList("ACTUATOR_PORTS"),
		ActuatorPattern:   getEnv("ACTUATOR_PORT_PATTERN", "ACM"),
		ActuatorBaud:      getEnvAsInt("ACTUATOR_BAUD", 57600),
		ActuatorSettle:    getEnvAsDuration("ACTUATOR_SETTLE", 3*time.Second),
		ActuatorReconnect: getEnvAsDuration("ACTUATOR_RECONNECT", 0),

		Headless:              getEnvAsBool("HEADLESS", false),
		Debug:                 getEnvAsBool("DEBUG", false),
		LogDirectory:          getEnv("LOG_DIR", filepath.Join(".", "logs")),
		DatabasePath:          getEnv("DB_PATH", filepath.Join(".", "data", "actuations.db")),
		SnapshotDirectory:     getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotLimit:         getEnvAsInt("SNAPSHOT_LIMIT", 7),
		SnapshotFlushInterval: getEnvAsDuration("SNAPSHOT_FLUSH_INTERVAL", 30*time.Second),
		HTTPPort:              getEnvAsInt("HTTP_PORT", 0),
		HTTPToken:             getEnv("HTTP_TOKEN", ""),
		MQTTBroker:            getEnv("MQTT_BROKER", ""),
		MQTTClientID:          getEnv("MQTT_CLIENT_ID", "peopledetect"),
		MQTTTopic:             getEnv("MQTT_TOPIC", "peopledetect"),
	}
}

// BindFlags registers the command line surface on fs, using the current
// values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Help, "help", c.Help, "print usage")
	fs.StringVar(&c.ModelConfig, "cfg", c.ModelConfig, "model configuration")
	fs.StringVar(&c.ModelWeights, "model", c.ModelWeights, "model weights")
	fs.IntVar(&c.CameraDevice, "camera_device", c.CameraDevice, "camera device number")
	fs.StringVar(&c.Source, "source", c.Source, "video or image for detection")
	fs.StringVar(&c.Style, "style", c.Style, "box or line style draw")
	fs.Float64Var(&c.MinConfidence, "min_confidence", c.MinConfidence, "min confidence")
	fs.StringVar(&c.ClassNames, "class_names", c.ClassNames, "file with class names, [PATH-TO-DARKNET]/data/coco.names")
	fs.StringVar(&c.SettingsFile, "settings", c.SettingsFile, "YAML file with gate and actuator settings")
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Style != StyleBox && c.Style != StyleLine {
		return fmt.Errorf("invalid style %q: want %q or %q", c.Style, StyleBox, StyleLine)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1], got %v", c.MinConfidence)
	}
	if c.TargetClass < 0 {
		return fmt.Errorf("target class must not be negative, got %d", c.TargetClass)
	}
	if c.ActuatorPin < 0 {
		return fmt.Errorf("actuator pin must not be negative, got %d", c.ActuatorPin)
	}
	if c.ActuatorToggles <= 0 {
		return fmt.Errorf("actuator toggles must be positive, got %d", c.ActuatorToggles)
	}
	if c.ActuatorInterval < 0 || c.ActuatorCooldown < 0 || c.ActuatorSettle < 0 || c.ActuatorReconnect < 0 {
		return fmt.Errorf("actuator durations must not be negative")
	}
	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		return fmt.Errorf("network input size must be positive, got %dx%d", c.InputWidth, c.InputHeight)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
