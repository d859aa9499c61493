package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/oshokin/door-sentry/internal/config"
)

const (
	// defaultConnectTimeout is the maximum time to wait for the initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for a token acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the milliseconds to wait for pending
	// operations on disconnect.
	defaultDisconnectQuiesce = 1000

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// reconnectInitialDelay is the first retry interval after a lost connection.
	reconnectInitialDelay = 1 * time.Second

	// reconnectMaxDelay caps the exponential reconnect backoff.
	reconnectMaxDelay = 60 * time.Second

	// clientIDSuffixLength is how many UUID characters are appended to the
	// configured client ID.
	clientIDSuffixLength = 8
)

// buildClientOptions creates paho options from the broker configuration.
//
// A random suffix is appended to the configured client ID so a restarted or
// duplicated instance never steals the broker session of a running one.
func buildClientOptions(broker config.Broker) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if broker.TLS {
		scheme = "ssl"
	}

	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, broker.Host, broker.Port))
	opts.SetClientID(fmt.Sprintf("%s-%s", broker.ClientID, uuid.NewString()[:clientIDSuffixLength]))

	if broker.Username != "" {
		opts.SetUsername(broker.Username)
		opts.SetPassword(broker.Password)
	}

	// Start fresh on connect; subscriptions are restored by the client itself.
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(reconnectInitialDelay)
	opts.SetMaxReconnectInterval(reconnectMaxDelay)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	}

	return opts
}

// configureWill sets up the Last Will so other broker clients can detect an
// unexpected death of the daemon.
func configureWill(opts *pahomqtt.ClientOptions, presenceTopic, clientID string) {
	opts.SetWill(presenceTopic, presencePayload(clientID, "offline", "unexpected_disconnect"), 1, true)
}

// presencePayload renders the JSON published on the presence topic.
func presencePayload(clientID, status, reason string) string {
	if reason == "" {
		return fmt.Sprintf(
			`{"status":%q,"client_id":%q,"timestamp":%q}`,
			status, clientID, time.Now().UTC().Format(time.RFC3339),
		)
	}

	return fmt.Sprintf(
		`{"status":%q,"client_id":%q,"reason":%q,"timestamp":%q}`,
		status, clientID, reason, time.Now().UTC().Format(time.RFC3339),
	)
}
