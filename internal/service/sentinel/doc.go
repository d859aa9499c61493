// Package sentinel runs the door-sentry daemon: it decodes inbound MQTT
// messages into security events, feeds them through the state machine on a
// single consumer loop, and executes the resulting commands (LED patterns,
// status publishes, notifications, countdowns).
//
// The loop is the only owner of the state machine and the countdown handle;
// MQTT handlers and timer callbacks are producers that enqueue events
// without blocking, which keeps the machine free of locks.
package sentinel
