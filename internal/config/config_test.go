package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// validTopics returns a fully populated topic set for tests.
func validTopics() Topics {
	return Topics{
		Door:    "zigbee2mqtt/door-contact",
		NFC:     "tele/nfc-reader/RESULT",
		Button:  "stat/access-button/RESULT",
		Command: "cmnd/access-panel/json",
		Status:  "door-sentry/status",
	}
}

// TestValidate checks required fields, defaults and rejection of invalid values.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	require.Error(t, Validate(nil))

	// Missing broker host.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Minimal valid config picks up defaults.
	cfg = &Config{
		Broker: Broker{Host: "localhost"},
		Topics: validTopics(),
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultBrokerPort, cfg.Broker.Port)
	require.Equal(t, DefaultClientID, cfg.Broker.ClientID)
	require.Equal(t, DefaultCountdownSeconds, cfg.ArmingSeconds)
	require.Equal(t, DefaultCountdownSeconds, cfg.TriggerSeconds)
	require.Equal(t, DefaultUsersFilename, cfg.UsersFile)
	require.Equal(t, DefaultButtonKey, cfg.Button.Key)
	require.Equal(t, DefaultButtonValue, cfg.Button.Value)

	// Negative countdowns are rejected, never defaulted.
	cfg = &Config{
		Broker:        Broker{Host: "localhost"},
		Topics:        validTopics(),
		ArmingSeconds: -1,
	}
	require.Error(t, Validate(cfg))

	cfg = &Config{
		Broker:         Broker{Host: "localhost"},
		Topics:         validTopics(),
		TriggerSeconds: -5,
	}
	require.Error(t, Validate(cfg))

	// Out-of-range broker port.
	cfg = &Config{
		Broker: Broker{Host: "localhost", Port: 70000},
		Topics: validTopics(),
	}
	require.Error(t, Validate(cfg))
}

// TestValidate_Topics verifies each topic name is required.
func TestValidate_Topics(t *testing.T) {
	t.Parallel()

	blank := func(mutate func(*Topics)) *Config {
		topics := validTopics()
		mutate(&topics)

		return &Config{
			Broker: Broker{Host: "localhost"},
			Topics: topics,
		}
	}

	require.Error(t, Validate(blank(func(s *Topics) { s.Door = "" })))
	require.Error(t, Validate(blank(func(s *Topics) { s.NFC = "" })))
	require.Error(t, Validate(blank(func(s *Topics) { s.Button = "" })))
	require.Error(t, Validate(blank(func(s *Topics) { s.Command = "" })))
	require.Error(t, Validate(blank(func(s *Topics) { s.Status = "" })))
}

// TestLoad ensures a YAML settings file is parsed, validated and defaulted.
func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	contents := `
broker:
  host: broker.local
  port: 8883
  username: sentry
  password: secret
  tls: true
topics:
  door: zigbee2mqtt/door-contact
  nfc: tele/nfc-reader/RESULT
  button: stat/access-button/RESULT
  command: cmnd/access-panel/json
  status: door-sentry/status
arming_seconds: 20
trigger_seconds: 45
telegram:
  token: "123:abc"
  chat_id: "-100200300"
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "broker.local", cfg.Broker.Host)
	require.Equal(t, 8883, cfg.Broker.Port)
	require.True(t, cfg.Broker.TLS)
	require.Equal(t, 20, cfg.ArmingSeconds)
	require.Equal(t, 45, cfg.TriggerSeconds)
	require.Equal(t, "123:abc", cfg.Telegram.Token)
	require.Equal(t, "-100200300", cfg.Telegram.ChatID)
	require.Equal(t, DefaultUsersFilename, cfg.UsersFile)
}

// TestLoad_Errors ensures missing files and invalid documents are reported.
func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err = Load(path)
	require.Error(t, err)
}
