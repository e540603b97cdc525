// Package actuator connects to a Firmata board and runs the bounded pin
// toggling task issued by the gate.
package actuator

// Level is a digital pin level.
type Level byte

const (
	Low  Level = 0
	High Level = 1
)

// Invert returns the opposite level.
func (l Level) Invert() Level {
	if l == Low {
		return High
	}
	return Low
}

// PinMode is the Firmata pin mode subset the task needs.
type PinMode int

const (
	ModeInput PinMode = iota
	ModeOutput
)

// Handle is a live connection to the microcontroller. Operations on a released
// or failed connection return models.ErrNotOpen; I/O failures wrap
// models.ErrTransport.
type Handle interface {
	SetPinMode(pin int, mode PinMode) error
	DigitalWrite(pin int, level Level) error
	DigitalRead(pin int) (Level, error)
	Ready() bool
	Close() error
}
