package sentinel

import (
	"context"
	"fmt"

	"github.com/oshokin/door-sentry/internal/config"
	"github.com/oshokin/door-sentry/internal/domain/security"
	"github.com/oshokin/door-sentry/internal/logger"
	"github.com/oshokin/door-sentry/internal/mqtt"
	"github.com/oshokin/door-sentry/internal/notify"
	"github.com/oshokin/door-sentry/internal/users"
)

// Options controls the door-sentry process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// UsersFile provides an optional override for the authorized-user list path.
	UsersFile string
}

// Run starts the daemon and blocks until the context is cancelled.
// Any configuration, user-list or broker-connection error is returned before
// a single event is processed, so a broken setup never runs half-armed.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "door-sentry")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if settings.LogLevel != "" {
		level, ok := logger.ParseLogLevel(settings.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", settings.LogLevel)
		}

		logger.SetLevel(level)
	}

	// Use the users file from config unless overridden on the command line.
	usersFile := settings.UsersFile
	if opts.UsersFile != "" {
		usersFile = opts.UsersFile
	}

	store, err := users.LoadFile(usersFile)
	if err != nil {
		return fmt.Errorf("load authorized users: %w", err)
	}

	logger.InfoKV(ctx, "Authorized users loaded", "users_file", usersFile, "count", store.Len())

	notifier := buildNotifier(ctx, settings)

	client, err := mqtt.Connect(ctx, settings.Broker, settings.Topics.Status+"/presence")
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	defer func() {
		if err := client.Close(); err != nil {
			logger.ErrorKV(ctx, "Failed to close MQTT client", "error", err)
		}
	}()

	machine := security.NewMachine(security.Params{
		ArmingSeconds:  settings.ArmingSeconds,
		TriggerSeconds: settings.TriggerSeconds,
	}, store)

	ctrl := newController(settings, machine, client, notifier)

	if err := subscribeAll(ctx, client, settings, ctrl); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Door sentry running",
		"arming_seconds", settings.ArmingSeconds,
		"trigger_seconds", settings.TriggerSeconds,
		"door_topic", settings.Topics.Door,
		"nfc_topic", settings.Topics.NFC,
		"button_topic", settings.Topics.Button,
	)

	return ctrl.run(ctx)
}

// buildNotifier picks the notification transport. Missing credentials are a
// warning, not a failure: the system still arms and triggers locally.
func buildNotifier(ctx context.Context, settings *config.Config) notify.Notifier {
	if settings.Telegram.Token == "" || settings.Telegram.ChatID == "" {
		logger.Warn(ctx, "Telegram is not configured, notifications are disabled")

		return notify.Nop{}
	}

	return notify.NewTelegram(settings.Telegram.Token, settings.Telegram.ChatID)
}

// subscribeAll registers the three inbound topic handlers.
func subscribeAll(ctx context.Context, client *mqtt.Client, settings *config.Config, ctrl *controller) error {
	subscriptions := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{settings.Topics.Door, func(_ string, payload []byte) error {
			return ctrl.onDoorMessage(ctx, payload)
		}},
		{settings.Topics.NFC, func(_ string, payload []byte) error {
			return ctrl.onNfcMessage(ctx, payload)
		}},
		{settings.Topics.Button, func(_ string, payload []byte) error {
			return ctrl.onButtonMessage(ctx, payload)
		}},
	}

	for _, sub := range subscriptions {
		if err := client.Subscribe(sub.topic, defaultQoS, sub.handler); err != nil {
			return fmt.Errorf("subscribe to %s: %w", sub.topic, err)
		}
	}

	return nil
}
