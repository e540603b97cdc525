package gate

import "encoding/json"

// DecisionKind is what Evaluate did with a frame.
type DecisionKind int

const (
	// Ignored means no detection qualified.
	Ignored DecisionKind = iota
	// Triggered means a request was issued and an actuation started.
	Triggered
	// Busy means an actuation or its cooldown is in progress.
	Busy
	// Unavailable means a detection qualified but no actuator is attached.
	Unavailable
)

func (k DecisionKind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Triggered:
		return "triggered"
	case Busy:
		return "busy"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

type Decision struct {
	Kind    DecisionKind
	Request Request // set when Kind == Triggered
}

// Status is the interlock state shown on the overlay.
type Status int

const (
	StatusReady Status = iota
	StatusBusy
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusBusy:
		return "busy"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Message is the overlay text for s.
func (s Status) Message() string {
	switch s {
	case StatusBusy:
		return "Device busy!"
	case StatusUnavailable:
		return "No actuator available"
	default:
		return "Ready to run the procedure!"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
