package security

// Notification texts emitted by the Machine.
const (
	// MsgUnauthorizedScan is sent when an unknown tag is scanned while armed.
	MsgUnauthorizedScan = "unauthorized scan"
	// MsgIntrusionDetected is sent when the trigger window expires.
	MsgIntrusionDetected = "intrusion detected"
	// MsgDisarmedAfterAlarm is sent when an authorized tag ends an alarm.
	MsgDisarmedAfterAlarm = "disarmed after alarm"
	// MsgUnauthorizedScanDuringAlarm is sent when an unknown tag is scanned
	// while the alarm is sounding.
	MsgUnauthorizedScanDuringAlarm = "unauthorized scan during alarm"
)

// Authorizer answers whether a scanned tag identifier belongs to the
// authorized-user list. Implementations must be safe for concurrent reads
// and must not mutate during the process lifetime.
type Authorizer interface {
	IsAuthorized(uid string) bool
}

// Params holds the countdown durations the Machine embeds into timer commands.
type Params struct {
	// ArmingSeconds is the grace countdown between button press and Armed.
	ArmingSeconds int
	// TriggerSeconds is how long an open door is tolerated while Armed.
	TriggerSeconds int
}

// Machine holds the current security state and applies events to it.
//
// It is not safe for concurrent use: the owning consumer loop is the only
// caller, which is what makes lock-free mutation sound here.
type Machine struct {
	// params are the configured countdown durations.
	params Params
	// auth checks scanned tags against the authorized-user list.
	auth Authorizer
	// state is the current security state.
	state State
	// triggerPending is true while the trigger window is running. It keeps
	// a second door-open from restarting the countdown and makes a stale
	// expiry (raced with a cancel) a no-op.
	triggerPending bool
}

// NewMachine returns a Machine in Disarmed, the state of a fresh process.
func NewMachine(params Params, auth Authorizer) *Machine {
	return &Machine{
		params: params,
		auth:   auth,
		state:  Disarmed,
	}
}

// State returns the current security state.
func (m *Machine) State() State {
	return m.state
}

// Apply consumes one event and returns the ordered commands it produces.
// Events that are not meaningful in the current state return an empty
// command list and leave the state untouched.
func (m *Machine) Apply(event Event) []Command {
	switch m.state {
	case Disarmed:
		return m.applyDisarmed(event)
	case Arming:
		return m.applyArming(event)
	case Armed:
		return m.applyArmed(event)
	case Triggered:
		return m.applyTriggered(event)
	default:
		return nil
	}
}

// applyDisarmed handles events in the baseline state. Only the button does
// anything: door and NFC chatter has no alarm effect while disarmed.
func (m *Machine) applyDisarmed(event Event) []Command {
	if _, ok := event.(ButtonPressed); !ok {
		return nil
	}

	m.state = Arming

	return []Command{
		StartArmingTimer{Seconds: m.params.ArmingSeconds},
		SetLed{Pattern: LedBlinkingGreen},
	}
}

// applyArming handles the grace countdown. The countdown either runs out
// (Armed) or is aborted by the button or an authorized tag. Door events are
// ignored so residents can leave while the countdown runs.
func (m *Machine) applyArming(event Event) []Command {
	switch e := event.(type) {
	case ArmingTimerExpired:
		m.state = Armed

		return []Command{SetLed{Pattern: LedSolidGreen}}
	case ButtonPressed:
		return m.disarm(nil)
	case NfcScanned:
		if !m.auth.IsAuthorized(e.UID) {
			return nil
		}

		return m.disarm(nil)
	default:
		return nil
	}
}

// applyArmed handles the armed state: a door-open starts the trigger window
// once, an authorized tag disarms, an unknown tag is reported.
func (m *Machine) applyArmed(event Event) []Command {
	switch e := event.(type) {
	case DoorChanged:
		// The first open starts the countdown; later opens before expiry are
		// idempotent so the window cannot be reset by jiggling the door.
		if !e.Open || m.triggerPending {
			return nil
		}

		m.triggerPending = true

		return []Command{
			StartTriggerTimer{Seconds: m.params.TriggerSeconds},
			SetLed{Pattern: LedBlinkingGreen},
		}
	case NfcScanned:
		if !m.auth.IsAuthorized(e.UID) {
			return []Command{Notify{Message: MsgUnauthorizedScan}}
		}

		return m.disarm(nil)
	case TriggerTimerExpired:
		if !m.triggerPending {
			return nil
		}

		m.triggerPending = false
		m.state = Triggered

		return []Command{
			SetLed{Pattern: LedBlinkingRed},
			Notify{Message: MsgIntrusionDetected},
		}
	default:
		return nil
	}
}

// applyTriggered handles the alarm state. Only an authorized tag ends it.
func (m *Machine) applyTriggered(event Event) []Command {
	scan, ok := event.(NfcScanned)
	if !ok {
		return nil
	}

	if !m.auth.IsAuthorized(scan.UID) {
		return []Command{Notify{Message: MsgUnauthorizedScanDuringAlarm}}
	}

	return m.disarm([]Command{Notify{Message: MsgDisarmedAfterAlarm}})
}

// disarm moves to Disarmed, cancels any countdown and appends extra commands
// after the cancel and LED switch.
func (m *Machine) disarm(extra []Command) []Command {
	m.state = Disarmed
	m.triggerPending = false

	commands := []Command{
		CancelTimers{},
		SetLed{Pattern: LedSolidRed},
	}

	return append(commands, extra...)
}
