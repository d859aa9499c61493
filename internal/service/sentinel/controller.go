package sentinel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oshokin/door-sentry/internal/config"
	"github.com/oshokin/door-sentry/internal/domain/security"
	"github.com/oshokin/door-sentry/internal/logger"
	"github.com/oshokin/door-sentry/internal/notify"
	"github.com/oshokin/door-sentry/internal/timers"
)

const (
	// eventQueueSize buffers bursts from the transport and timer producers.
	// A full queue drops the event rather than blocking a producer.
	eventQueueSize = 64

	// defaultQoS is used for all outbound publishes.
	defaultQoS = 1

	// notifyTimeout bounds one notification delivery.
	notifyTimeout = 15 * time.Second
)

// publisher abstracts the outbound MQTT surface the controller needs.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// controller owns the state machine and the countdown. Its run loop is the
// single consumer of the event queue; everything else only produces.
type controller struct {
	// cfg is the read-only daemon configuration.
	cfg *config.Config
	// machine is the security state machine, touched only by the run loop.
	machine *security.Machine
	// bus publishes LED commands and status transitions.
	bus publisher
	// notifier delivers security notifications.
	notifier notify.Notifier
	// events is the single inbound queue fed by transport and timer producers.
	events chan security.Event
	// countdown is the one active timer; starting a new countdown replaces
	// the running one, which enforces the at-most-one-timer invariant.
	countdown timers.Timer
}

// newController wires the machine to its collaborators.
func newController(
	cfg *config.Config,
	machine *security.Machine,
	bus publisher,
	notifier notify.Notifier,
) *controller {
	return &controller{
		cfg:      cfg,
		machine:  machine,
		bus:      bus,
		notifier: notifier,
		events:   make(chan security.Event, eventQueueSize),
	}
}

// enqueue hands an event to the consumer loop without blocking the producer.
// A full queue means the consumer is badly stalled; dropping and logging is
// preferable to wedging the transport callbacks.
func (c *controller) enqueue(ctx context.Context, event security.Event) {
	select {
	case c.events <- event:
	default:
		logger.WarnKV(ctx, "Event queue full, dropping event", "event", event)
	}
}

// onDoorMessage decodes a door-contact payload and enqueues the event.
func (c *controller) onDoorMessage(ctx context.Context, payload []byte) error {
	event, err := decodeDoorEvent(payload)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Door contact changed", "open", event.Open)
	c.enqueue(ctx, event)

	return nil
}

// onNfcMessage decodes an NFC reader payload and enqueues the event.
func (c *controller) onNfcMessage(ctx context.Context, payload []byte) error {
	event, err := decodeNfcEvent(payload)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "NFC tag scanned", "uid", event.UID)
	c.enqueue(ctx, event)

	return nil
}

// onButtonMessage checks a button payload and enqueues a press.
func (c *controller) onButtonMessage(ctx context.Context, payload []byte) error {
	pressed, err := decodeButtonEvent(payload, c.cfg.Button.Key, c.cfg.Button.Value)
	if err != nil {
		return err
	}

	if !pressed {
		return nil
	}

	logger.Info(ctx, "Arm button pressed")
	c.enqueue(ctx, security.ButtonPressed{})

	return nil
}

// run consumes events until the context is cancelled. It publishes the
// initial status and LED state before the first event so the panel and any
// status subscribers reflect reality from the start.
func (c *controller) run(ctx context.Context) error {
	c.publishStatus(ctx, c.machine.State())
	c.publishLed(ctx, security.LedSolidRed)

	for {
		select {
		case <-ctx.Done():
			c.countdown.Cancel()
			logger.Info(ctx, "Event loop stopped")

			return nil
		case event := <-c.events:
			c.dispatch(ctx, event)
		}
	}
}

// dispatch applies one event and executes the resulting commands.
func (c *controller) dispatch(ctx context.Context, event security.Event) {
	previous := c.machine.State()
	commands := c.machine.Apply(event)

	for _, command := range commands {
		c.execute(ctx, command)
	}

	if next := c.machine.State(); next != previous {
		logger.InfoKV(ctx, "Security state changed", "from", previous.String(), "to", next.String())
		c.publishStatus(ctx, next)
	}
}

// execute performs one command emitted by the state machine.
func (c *controller) execute(ctx context.Context, command security.Command) {
	switch cmd := command.(type) {
	case security.StartArmingTimer:
		c.countdown.Start(time.Duration(cmd.Seconds)*time.Second, func() {
			c.enqueue(ctx, security.ArmingTimerExpired{})
		})
	case security.StartTriggerTimer:
		c.countdown.Start(time.Duration(cmd.Seconds)*time.Second, func() {
			c.enqueue(ctx, security.TriggerTimerExpired{})
		})
	case security.CancelTimers:
		c.countdown.Cancel()
	case security.SetLed:
		c.publishLed(ctx, cmd.Pattern)
	case security.Notify:
		c.sendNotification(ctx, cmd.Message)
	}
}

// ledCommand is the JSON the access panel expects on the command topic.
type ledCommand struct {
	Power1 string `json:"power1"`
	Power2 string `json:"power2"`
	Buzzer string `json:"buzzer"`
}

// ledCommandFor maps an indicator pattern to the panel outputs:
// power1 drives the red LED, power2 the green one.
func ledCommandFor(pattern security.LedPattern) ledCommand {
	command := ledCommand{Buzzer: "1,1,1,1"}

	switch pattern {
	case security.LedSolidRed:
		command.Power1, command.Power2 = "on", "off"
	case security.LedBlinkingGreen:
		command.Power1, command.Power2 = "off", "blink"
	case security.LedSolidGreen:
		command.Power1, command.Power2 = "off", "on"
	case security.LedBlinkingRed:
		command.Power1, command.Power2 = "blink", "blink"
	}

	return command
}

// publishLed sends the LED pattern to the command topic.
// Publish failures are logged and skipped; the state machine is not affected.
func (c *controller) publishLed(ctx context.Context, pattern security.LedPattern) {
	payload, err := json.Marshal(ledCommandFor(pattern))
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode LED command", "pattern", pattern.String(), "error", err)

		return
	}

	if err := c.bus.Publish(c.cfg.Topics.Command, payload, defaultQoS, false); err != nil {
		logger.ErrorKV(ctx, "Failed to publish LED command", "pattern", pattern.String(), "error", err)

		return
	}

	logger.DebugKV(ctx, "LED command published", "pattern", pattern.String())
}

// statusMessage is the JSON published on the status topic.
type statusMessage struct {
	State string `json:"state"`
}

// publishStatus publishes the current state, retained so late subscribers
// immediately see it.
func (c *controller) publishStatus(ctx context.Context, state security.State) {
	payload, err := json.Marshal(statusMessage{State: state.String()})
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode status", "state", state.String(), "error", err)

		return
	}

	if err := c.bus.Publish(c.cfg.Topics.Status, payload, defaultQoS, true); err != nil {
		logger.ErrorKV(ctx, "Failed to publish status", "state", state.String(), "error", err)

		return
	}

	logger.InfoKV(ctx, "Status published", "state", state.String())
}

// sendNotification delivers the message off the critical path so a slow
// notification transport cannot stall event processing.
func (c *controller) sendNotification(ctx context.Context, message string) {
	go func() {
		sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		if err := c.notifier.Send(sendCtx, message); err != nil {
			logger.ErrorKV(ctx, "Failed to send notification", "message", message, "error", err)

			return
		}

		logger.InfoKV(ctx, "Notification sent", "message", message)
	}()
}
