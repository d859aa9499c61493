package security

// Event is one of the closed set of inputs the Machine consumes.
// State transitions happen only through this set; nothing mutates the
// state directly.
type Event interface {
	isEvent()
}

// DoorChanged reports a door-contact transition.
type DoorChanged struct {
	// Open is true when the door contact reports open.
	Open bool
}

// NfcScanned reports a tag read by the NFC reader.
type NfcScanned struct {
	// UID is the raw tag identifier as received from the reader.
	UID string
}

// ButtonPressed reports a press of the manual arm button.
type ButtonPressed struct{}

// ArmingTimerExpired reports that the arming grace countdown ran out.
type ArmingTimerExpired struct{}

// TriggerTimerExpired reports that the trigger window ran out.
type TriggerTimerExpired struct{}

func (DoorChanged) isEvent()         {}
func (NfcScanned) isEvent()          {}
func (ButtonPressed) isEvent()       {}
func (ArmingTimerExpired) isEvent()  {}
func (TriggerTimerExpired) isEvent() {}
