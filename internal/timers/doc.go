// Package timers provides the single-shot countdown primitive behind the
// arming and trigger windows.
//
// A Timer runs at most one countdown. Starting a new countdown atomically
// replaces a running one, and a replaced or cancelled countdown never fires
// its callback, so two expiries can never race onto the event path.
// Cancelling is idempotent.
package timers
