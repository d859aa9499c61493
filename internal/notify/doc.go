// Package notify delivers security notifications to a remote channel.
//
// The only implementation is Telegram's sendMessage API. Delivery failures
// are reported as errors for the caller to log; they never affect the
// security state. When no credentials are configured a Nop notifier is used
// so the rest of the system is indifferent to the notification setup.
package notify
