package client

import "fmt"

// State is a step of the wallet verification flow
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateSigning    State = "signing"
	StateVerifying  State = "verifying"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Busy reports whether an attempt is in flight
func (s State) Busy() bool {
	return s == StateConnecting || s == StateSigning || s == StateVerifying
}

// Terminal reports whether the attempt has finished
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// Event drives a transition of the flow
type Event string

const (
	EventStart             Event = "start"
	EventAccountsObtained  Event = "accounts_obtained"
	EventSignatureObtained Event = "signature_obtained"
	EventVerified          Event = "verified"
	EventFailed            Event = "failed"
)

// Next returns the state that follows s on e. Steps cannot be skipped and a
// busy flow cannot be restarted.
func Next(s State, e Event) (State, error) {
	switch {
	case e == EventStart && (s == StateIdle || s.Terminal()):
		return StateConnecting, nil
	case e == EventAccountsObtained && s == StateConnecting:
		return StateSigning, nil
	case e == EventSignatureObtained && s == StateSigning:
		return StateVerifying, nil
	case e == EventVerified && s == StateVerifying:
		return StateSuccess, nil
	case e == EventFailed && s.Busy():
		return StateError, nil
	}
	return s, fmt.Errorf("invalid transition from %s on %s", s, e)
}
