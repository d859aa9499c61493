package sentinel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/door-sentry/internal/domain/security"
	"github.com/oshokin/door-sentry/internal/users"
)

var (
	// errEmptyDoorPayload is returned when a door message carries neither field.
	errEmptyDoorPayload = errors.New("door payload has neither state nor contact")
	// errEmptyNfcPayload is returned when an NFC message carries no uid.
	errEmptyNfcPayload = errors.New("nfc payload has no uid")
)

// doorMessage covers both door payload dialects: the plain
// {"state":"open"|"closed"} form and the zigbee2mqtt {"contact":bool} form.
type doorMessage struct {
	State   *string `json:"state"`
	Contact *bool   `json:"contact"`
}

// decodeDoorEvent parses a door-contact payload.
// When both fields are present, state wins.
func decodeDoorEvent(payload []byte) (security.DoorChanged, error) {
	var message doorMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return security.DoorChanged{}, fmt.Errorf("decode door payload: %w", err)
	}

	if message.State != nil {
		switch strings.ToLower(strings.TrimSpace(*message.State)) {
		case "open":
			return security.DoorChanged{Open: true}, nil
		case "closed":
			return security.DoorChanged{Open: false}, nil
		default:
			return security.DoorChanged{}, fmt.Errorf("unknown door state %q", *message.State)
		}
	}

	if message.Contact != nil {
		// zigbee2mqtt reports contact=true while the door is closed.
		return security.DoorChanged{Open: !*message.Contact}, nil
	}

	return security.DoorChanged{}, errEmptyDoorPayload
}

// nfcMessage covers both NFC payload dialects: the plain {"uid":"..."} form
// and the Tasmota PN532 {"PN532":{"UID":"..."}} form.
type nfcMessage struct {
	UID   string `json:"uid"`
	PN532 struct {
		UID string `json:"UID"`
	} `json:"PN532"`
}

// decodeNfcEvent parses an NFC reader payload. The uid is normalized so the
// state machine and logs always see the canonical identifier.
func decodeNfcEvent(payload []byte) (security.NfcScanned, error) {
	var message nfcMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return security.NfcScanned{}, fmt.Errorf("decode nfc payload: %w", err)
	}

	uid := message.UID
	if uid == "" {
		uid = message.PN532.UID
	}

	uid = users.NormalizeUID(uid)
	if uid == "" {
		return security.NfcScanned{}, errEmptyNfcPayload
	}

	return security.NfcScanned{UID: uid}, nil
}

// decodeButtonEvent reports whether a button payload signals a press: the
// JSON object must carry the configured key with exactly the configured
// value. Other messages on the button topic are not errors, just not
// presses.
func decodeButtonEvent(payload []byte, key, value string) (bool, error) {
	var message map[string]any
	if err := json.Unmarshal(payload, &message); err != nil {
		return false, fmt.Errorf("decode button payload: %w", err)
	}

	got, ok := message[key]
	if !ok {
		return false, nil
	}

	s, ok := got.(string)

	return ok && s == value, nil
}
