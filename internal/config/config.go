package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Broker holds MQTT broker connection parameters.
type Broker struct {
	// Host is the broker hostname or IP address.
	Host string `yaml:"host"`
	// Port is the broker TCP port.
	Port int `yaml:"port"`
	// Username is the optional broker username.
	Username string `yaml:"username"`
	// Password is the optional broker password.
	Password string `yaml:"password"`
	// ClientID identifies this daemon on the broker. A random suffix is
	// appended at connect time so restarted instances never collide.
	ClientID string `yaml:"client_id"`
	// TLS enables an encrypted connection to the broker.
	TLS bool `yaml:"tls"`
}

// Topics names the MQTT topics the daemon consumes and produces.
type Topics struct {
	// Door is the door-contact sensor topic (inbound).
	Door string `yaml:"door"`
	// NFC is the NFC reader result topic (inbound).
	NFC string `yaml:"nfc"`
	// Button is the arm-button result topic (inbound).
	Button string `yaml:"button"`
	// Command is the LED/buzzer command topic (outbound).
	Command string `yaml:"command"`
	// Status is the topic where the current system state is published (outbound).
	Status string `yaml:"status"`
}

// Button describes how a button press is recognised in the button topic payload.
// The press fires when the JSON object carries Key with exactly Value.
type Button struct {
	// Key is the JSON key to inspect (e.g. "POWER").
	Key string `yaml:"key"`
	// Value is the payload value signalling a press (e.g. "ON").
	Value string `yaml:"value"`
}

// Telegram holds credentials for the notification transport.
// Both fields empty means notifications are disabled.
type Telegram struct {
	// Token is the bot token.
	Token string `yaml:"token"`
	// ChatID is the destination chat identifier.
	ChatID string `yaml:"chat_id"`
}

// Config holds all settings of the sentinel daemon. It is loaded once at
// startup and read-only thereafter.
type Config struct {
	// Broker configures the MQTT connection.
	Broker Broker `yaml:"broker"`
	// Topics configures the inbound and outbound topic names.
	Topics Topics `yaml:"topics"`
	// Button configures button payload matching.
	Button Button `yaml:"button"`
	// ArmingSeconds is the grace countdown between button press and armed.
	ArmingSeconds int `yaml:"arming_seconds"`
	// TriggerSeconds is how long an open door is tolerated while armed.
	TriggerSeconds int `yaml:"trigger_seconds"`
	// UsersFile is the path to the authorized-user JSON list.
	UsersFile string `yaml:"users_file"`
	// Telegram configures the notification transport.
	Telegram Telegram `yaml:"telegram"`
	// LogLevel is the minimum log level (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for daemon settings.
	DefaultConfigFilename = "door-sentry-settings.yaml"

	// DefaultUsersFilename is the default filename for the authorized-user list.
	DefaultUsersFilename = "door-sentry-users.json"

	// DefaultBrokerPort is the standard unencrypted MQTT port.
	DefaultBrokerPort = 1883

	// DefaultClientID identifies the daemon on the broker unless overridden.
	DefaultClientID = "door-sentry"

	// DefaultCountdownSeconds is used for both countdowns when unset.
	DefaultCountdownSeconds = 30

	// DefaultButtonKey is the payload key checked for button presses.
	DefaultButtonKey = "POWER"

	// DefaultButtonValue is the payload value signalling a button press.
	DefaultButtonValue = "ON"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBrokerHostRequired is returned when the broker host is missing.
	errBrokerHostRequired = errors.New("broker host must be provided")
	// errArmingNotPositive is returned when the arming countdown is invalid.
	errArmingNotPositive = errors.New("arming_seconds must be a positive integer")
	// errTriggerNotPositive is returned when the trigger countdown is invalid.
	errTriggerNotPositive = errors.New("trigger_seconds must be a positive integer")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the provided settings for required fields and applies defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Broker.Host == "" {
		return errBrokerHostRequired
	}

	if cfg.Broker.Port == 0 {
		cfg.Broker.Port = DefaultBrokerPort
	}

	if cfg.Broker.Port < 0 || cfg.Broker.Port > 65535 {
		return fmt.Errorf("invalid broker port: %d", cfg.Broker.Port)
	}

	if cfg.Broker.ClientID == "" {
		cfg.Broker.ClientID = DefaultClientID
	}

	if cfg.ArmingSeconds == 0 {
		cfg.ArmingSeconds = DefaultCountdownSeconds
	}

	if cfg.ArmingSeconds < 0 {
		return errArmingNotPositive
	}

	if cfg.TriggerSeconds == 0 {
		cfg.TriggerSeconds = DefaultCountdownSeconds
	}

	if cfg.TriggerSeconds < 0 {
		return errTriggerNotPositive
	}

	if cfg.UsersFile == "" {
		cfg.UsersFile = DefaultUsersFilename
	}

	if cfg.Button.Key == "" {
		cfg.Button.Key = DefaultButtonKey
	}

	if cfg.Button.Value == "" {
		cfg.Button.Value = DefaultButtonValue
	}

	return validateTopics(&cfg.Topics)
}

// validateTopics rejects empty topic names. Every topic is required: the
// daemon is useless without its full inbound and outbound surface.
func validateTopics(topics *Topics) error {
	named := []struct {
		name  string
		value string
	}{
		{"topics.door", topics.Door},
		{"topics.nfc", topics.NFC},
		{"topics.button", topics.Button},
		{"topics.command", topics.Command},
		{"topics.status", topics.Status},
	}

	for _, t := range named {
		if t.value == "" {
			return fmt.Errorf("%s must be a non-empty topic name", t.name)
		}
	}

	return nil
}
