package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// setAuthorizer allows tags from a fixed set; a minimal Authorizer for tests.
type setAuthorizer map[string]struct{}

// IsAuthorized reports membership of the uid in the set.
func (a setAuthorizer) IsAuthorized(uid string) bool {
	_, ok := a[uid]

	return ok
}

const (
	knownUID   = "3456AC5A"
	unknownUID = "DEADBEEF"
)

// newTestMachine returns a Machine with short countdowns and one known tag.
func newTestMachine() *Machine {
	return NewMachine(
		Params{ArmingSeconds: 20, TriggerSeconds: 30},
		setAuthorizer{knownUID: {}},
	)
}

// drive applies a sequence of events, discarding commands.
func drive(m *Machine, events ...Event) {
	for _, event := range events {
		m.Apply(event)
	}
}

// TestMachine_StartsDisarmed verifies the initial state of a fresh machine.
func TestMachine_StartsDisarmed(t *testing.T) {
	t.Parallel()

	require.Equal(t, Disarmed, newTestMachine().State())
}

// TestMachine_NoOpLaw verifies that every event not listed as meaningful for
// a state leaves the state unchanged and emits no commands.
func TestMachine_NoOpLaw(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		setup []Event
		state State
		noOps []Event
	}{
		{
			name:  "disarmed",
			state: Disarmed,
			noOps: []Event{
				DoorChanged{Open: true},
				DoorChanged{Open: false},
				NfcScanned{UID: knownUID},
				NfcScanned{UID: unknownUID},
				ArmingTimerExpired{},
				TriggerTimerExpired{},
			},
		},
		{
			name:  "arming",
			setup: []Event{ButtonPressed{}},
			state: Arming,
			noOps: []Event{
				DoorChanged{Open: true},
				DoorChanged{Open: false},
				NfcScanned{UID: unknownUID},
				TriggerTimerExpired{},
			},
		},
		{
			name:  "armed",
			setup: []Event{ButtonPressed{}, ArmingTimerExpired{}},
			state: Armed,
			noOps: []Event{
				DoorChanged{Open: false},
				ButtonPressed{},
				ArmingTimerExpired{},
				// No trigger window is running, so a stale expiry is dropped.
				TriggerTimerExpired{},
			},
		},
		{
			name: "triggered",
			setup: []Event{
				ButtonPressed{}, ArmingTimerExpired{},
				DoorChanged{Open: true}, TriggerTimerExpired{},
			},
			state: Triggered,
			noOps: []Event{
				DoorChanged{Open: true},
				DoorChanged{Open: false},
				ButtonPressed{},
				ArmingTimerExpired{},
				TriggerTimerExpired{},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, event := range tc.noOps {
				m := newTestMachine()
				drive(m, tc.setup...)
				require.Equal(t, tc.state, m.State())

				commands := m.Apply(event)
				require.Empty(t, commands)
				require.Equal(t, tc.state, m.State())
			}
		})
	}
}

// TestMachine_ButtonStartsArming verifies the Disarmed -> Arming transition
// and its command order.
func TestMachine_ButtonStartsArming(t *testing.T) {
	t.Parallel()

	m := newTestMachine()

	commands := m.Apply(ButtonPressed{})
	require.Equal(t, Arming, m.State())
	require.Equal(t, []Command{
		StartArmingTimer{Seconds: 20},
		SetLed{Pattern: LedBlinkingGreen},
	}, commands)
}

// TestMachine_ArmingCompletes verifies the grace countdown arms the system
// regardless of door chatter during Arming.
func TestMachine_ArmingCompletes(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	drive(m, ButtonPressed{}, DoorChanged{Open: true}, DoorChanged{Open: false})

	commands := m.Apply(ArmingTimerExpired{})
	require.Equal(t, Armed, m.State())
	require.Equal(t, []Command{SetLed{Pattern: LedSolidGreen}}, commands)
}

// TestMachine_ArmingAborts verifies both abort paths out of Arming.
func TestMachine_ArmingAborts(t *testing.T) {
	t.Parallel()

	expected := []Command{
		CancelTimers{},
		SetLed{Pattern: LedSolidRed},
	}

	// Button press cancels the countdown.
	m := newTestMachine()
	drive(m, ButtonPressed{})
	require.Equal(t, expected, m.Apply(ButtonPressed{}))
	require.Equal(t, Disarmed, m.State())

	// Authorized scan cancels the countdown.
	m = newTestMachine()
	drive(m, ButtonPressed{})
	require.Equal(t, expected, m.Apply(NfcScanned{UID: knownUID}))
	require.Equal(t, Disarmed, m.State())
}

// TestMachine_DoorOpenStartsTriggerWindowOnce verifies the tie-break: the
// first open starts exactly one trigger timer, later opens are idempotent.
func TestMachine_DoorOpenStartsTriggerWindowOnce(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	drive(m, ButtonPressed{}, ArmingTimerExpired{})

	commands := m.Apply(DoorChanged{Open: true})
	require.Equal(t, Armed, m.State())
	require.Equal(t, []Command{
		StartTriggerTimer{Seconds: 30},
		SetLed{Pattern: LedBlinkingGreen},
	}, commands)

	// Jiggling the door must not reset the window.
	require.Empty(t, m.Apply(DoorChanged{Open: true}))
	require.Empty(t, m.Apply(DoorChanged{Open: false}))
	require.Empty(t, m.Apply(DoorChanged{Open: true}))
	require.Equal(t, Armed, m.State())
}

// TestMachine_TriggerWindowExpires verifies the Armed -> Triggered transition.
func TestMachine_TriggerWindowExpires(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	drive(m, ButtonPressed{}, ArmingTimerExpired{}, DoorChanged{Open: true})

	commands := m.Apply(TriggerTimerExpired{})
	require.Equal(t, Triggered, m.State())
	require.Equal(t, []Command{
		SetLed{Pattern: LedBlinkingRed},
		Notify{Message: MsgIntrusionDetected},
	}, commands)
}

// TestMachine_AuthorizedScanAlwaysDisarms verifies invariant (d): an
// authorized scan leaves Arming, Armed and Triggered for Disarmed and always
// cancels timers.
func TestMachine_AuthorizedScanAlwaysDisarms(t *testing.T) {
	t.Parallel()

	setups := map[string][]Event{
		"arming": {ButtonPressed{}},
		"armed":  {ButtonPressed{}, ArmingTimerExpired{}},
		"armed with trigger window": {
			ButtonPressed{}, ArmingTimerExpired{}, DoorChanged{Open: true},
		},
		"triggered": {
			ButtonPressed{}, ArmingTimerExpired{},
			DoorChanged{Open: true}, TriggerTimerExpired{},
		},
	}

	for name, setup := range setups {
		setup := setup
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newTestMachine()
			drive(m, setup...)

			commands := m.Apply(NfcScanned{UID: knownUID})
			require.Equal(t, Disarmed, m.State())
			require.Contains(t, commands, Command(CancelTimers{}))
			require.Contains(t, commands, Command(SetLed{Pattern: LedSolidRed}))
		})
	}
}

// TestMachine_UnauthorizedScanNeverChangesState verifies unknown tags are
// reported but have no transition effect in Armed and Triggered.
func TestMachine_UnauthorizedScanNeverChangesState(t *testing.T) {
	t.Parallel()

	m := newTestMachine()
	drive(m, ButtonPressed{}, ArmingTimerExpired{})

	commands := m.Apply(NfcScanned{UID: unknownUID})
	require.Equal(t, Armed, m.State())
	require.Equal(t, []Command{Notify{Message: MsgUnauthorizedScan}}, commands)

	drive(m, DoorChanged{Open: true}, TriggerTimerExpired{})

	commands = m.Apply(NfcScanned{UID: unknownUID})
	require.Equal(t, Triggered, m.State())
	require.Equal(t, []Command{Notify{Message: MsgUnauthorizedScanDuringAlarm}}, commands)
}

// TestMachine_FullIntrusionScenario walks the end-to-end path: arm, open the
// door, let the window expire, then disarm with an authorized tag.
func TestMachine_FullIntrusionScenario(t *testing.T) {
	t.Parallel()

	m := newTestMachine()

	var notifications []string

	record := func(commands []Command) {
		for _, command := range commands {
			if n, ok := command.(Notify); ok {
				notifications = append(notifications, n.Message)
			}
		}
	}

	record(m.Apply(ButtonPressed{}))
	record(m.Apply(ArmingTimerExpired{}))
	require.Equal(t, Armed, m.State())

	record(m.Apply(DoorChanged{Open: true}))
	record(m.Apply(TriggerTimerExpired{}))
	require.Equal(t, Triggered, m.State())
	require.Equal(t, []string{MsgIntrusionDetected}, notifications)

	commands := m.Apply(NfcScanned{UID: knownUID})
	require.Equal(t, Disarmed, m.State())
	require.Equal(t, []Command{
		CancelTimers{},
		SetLed{Pattern: LedSolidRed},
		Notify{Message: MsgDisarmedAfterAlarm},
	}, commands)
}

// TestStateString verifies status topic names for every state.
func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "disarmed", Disarmed.String())
	require.Equal(t, "arming", Arming.String())
	require.Equal(t, "armed", Armed.String())
	require.Equal(t, "triggered", Triggered.String())
	require.Equal(t, "unknown", State(42).String())
}
