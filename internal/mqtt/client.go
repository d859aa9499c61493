package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/door-sentry/internal/config"
	"github.com/oshokin/door-sentry/internal/logger"
)

// MessageHandler is the callback signature for received messages.
//
// Handlers are invoked in separate goroutines by the paho library and should
// not block for extended periods. A returned error is logged but does not
// affect message acknowledgment.
type MessageHandler func(topic string, payload []byte) error

// subscription holds subscription details for re-subscription on reconnect.
type subscription struct {
	topic   string
	qos     byte
	handler MessageHandler
}

// Client wraps a paho MQTT client with subscription tracking and presence.
type Client struct {
	client pahomqtt.Client
	broker config.Broker

	// presenceTopic carries online/offline payloads and the Last Will.
	// Empty disables presence.
	presenceTopic string

	// ctx carries the logger for connection callbacks.
	ctx context.Context

	// subscriptions tracks active subscriptions for restoration on reconnect.
	subscriptions map[string]subscription
	subMu         sync.RWMutex

	// connected tracks the last known connection state.
	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a connection to the broker described by the config.
//
// When presenceTopic is non-empty the client publishes a retained online
// payload there after every (re)connect, and installs a Last Will so the
// broker announces an unexpected disconnect on the same topic.
func Connect(ctx context.Context, broker config.Broker, presenceTopic string) (*Client, error) {
	opts := buildClientOptions(broker)
	if presenceTopic != "" {
		configureWill(opts, presenceTopic, broker.ClientID)
	}

	c := &Client{
		broker:        broker,
		presenceTopic: presenceTopic,
		ctx:           ctx,
		subscriptions: make(map[string]subscription),
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)

	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect callback runs asynchronously and may not have executed
	// yet; mark connected here so IsConnected is true on return.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// handleConnect runs on initial connect and on every reconnect.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	logger.InfoKV(c.ctx, "Connected to MQTT broker", "host", c.broker.Host, "port", c.broker.Port)

	c.restoreSubscriptions()
	c.publishPresence("online", "")
}

// handleDisconnect runs when the connection is lost; paho reconnects on its own.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	logger.WarnKV(c.ctx, "MQTT connection lost", "error", err)
}

// restoreSubscriptions re-subscribes to all tracked topics after a reconnect.
// Errors are ignored here: paho retries the connection and this runs again.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subscriptions {
		c.client.Subscribe(sub.topic, sub.qos, c.wrapHandler(sub.handler))
	}
}

// publishPresence publishes a retained presence payload, if configured.
func (c *Client) publishPresence(status, reason string) {
	if c.presenceTopic == "" {
		return
	}

	c.client.Publish(c.presenceTopic, 1, true, presencePayload(c.broker.ClientID, status, reason))
}

// IsConnected returns the last known connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()

	return c.connected && c.client.IsConnected()
}

// Close publishes a graceful offline presence and disconnects from the
// broker, waiting briefly for pending operations.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() && c.presenceTopic != "" {
		token := c.client.Publish(
			c.presenceTopic, 1, true,
			presencePayload(c.broker.ClientID, "offline", "graceful_shutdown"),
		)
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// wrapHandler adds panic recovery and error logging around a MessageHandler.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorKV(c.ctx, "MQTT handler panic recovered", "topic", msg.Topic(), "panic", r)
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			logger.WarnKV(c.ctx, "MQTT handler returned error", "topic", msg.Topic(), "error", err)
		}
	}
}
