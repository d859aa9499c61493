// Package mqtt wraps paho.mqtt.golang for the sentinel daemon.
//
// It provides connection management with automatic reconnection, tracked
// subscriptions that are restored after a reconnect, publish/subscribe
// operations with bounded timeouts, and broker-side presence (online/offline
// status with a Last Will for crash detection). Handlers run in paho
// goroutines and are wrapped with panic recovery so a misbehaving decoder
// cannot take the connection down.
//
// All methods are safe for concurrent use.
package mqtt
