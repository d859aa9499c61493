package security

// State is the arming state of the protected space.
// Exactly one value is current at any instant.
type State int

const (
	// Disarmed is the baseline state; door and NFC events have no alarm effect.
	Disarmed State = iota
	// Arming is the grace countdown between a button press and Armed.
	Arming
	// Armed means a door-open event starts the trigger countdown.
	Armed
	// Triggered is the alarm state reached when the trigger countdown expires
	// without an authorized disarm.
	Triggered
)

// String returns the state name as published on the status topic.
func (s State) String() string {
	switch s {
	case Disarmed:
		return "disarmed"
	case Arming:
		return "arming"
	case Armed:
		return "armed"
	case Triggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// LedPattern selects one of the fixed indicator patterns on the access panel.
type LedPattern int

const (
	// LedSolidRed indicates Disarmed.
	LedSolidRed LedPattern = iota
	// LedBlinkingGreen indicates a running countdown (Arming, or the trigger window).
	LedBlinkingGreen
	// LedSolidGreen indicates Armed.
	LedSolidGreen
	// LedBlinkingRed indicates Triggered.
	LedBlinkingRed
)

// String returns a readable pattern name for logs.
func (p LedPattern) String() string {
	switch p {
	case LedSolidRed:
		return "solid-red"
	case LedBlinkingGreen:
		return "blinking-green"
	case LedSolidGreen:
		return "solid-green"
	case LedBlinkingRed:
		return "blinking-red"
	default:
		return "unknown"
	}
}

// AuthorizedUser is one entry of the authorized-user list.
// The list is immutable for the process lifetime after load.
type AuthorizedUser struct {
	// Name is the human-readable owner of the tag.
	Name string `json:"name"`
	// UID is the NFC tag identifier.
	UID string `json:"uid"`
}
