package security

// Command is one of the closed set of side effects the Machine emits.
// Commands are executed by the caller in the order returned and are
// never stored.
type Command interface {
	isCommand()
}

// SetLed switches the access panel indicator to the given pattern.
type SetLed struct {
	// Pattern is the indicator pattern to show.
	Pattern LedPattern
}

// Notify sends a text message over the notification transport.
type Notify struct {
	// Message is the notification text.
	Message string
}

// StartArmingTimer schedules the arming grace countdown.
// Starting any timer implicitly cancels a running one.
type StartArmingTimer struct {
	// Seconds is the countdown duration.
	Seconds int
}

// StartTriggerTimer schedules the trigger window countdown.
// Starting any timer implicitly cancels a running one.
type StartTriggerTimer struct {
	// Seconds is the countdown duration.
	Seconds int
}

// CancelTimers cancels any outstanding countdown. Idempotent.
type CancelTimers struct{}

func (SetLed) isCommand()            {}
func (Notify) isCommand()            {}
func (StartArmingTimer) isCommand()  {}
func (StartTriggerTimer) isCommand() {}
func (CancelTimers) isCommand()      {}
