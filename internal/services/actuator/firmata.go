package actuator

import (
	"fmt"
	"strconv"
	"sync"

	"gobot.io/x/gobot/v2/platforms/firmata"

	"peopledetect/internal/models"
)

// FirmataHandle drives a board running StandardFirmata through gobot's adaptor.
type FirmataHandle struct {
	port    string
	adaptor *firmata.Adaptor

	mu     sync.Mutex
	open   bool
	modes  map[int]PinMode
	levels map[int]Level
}

// DialFirmata connects to the board on port.
func DialFirmata(port string) (Handle, error) {
	adaptor := firmata.NewAdaptor(port)
	if err := adaptor.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect firmata on %s: %w", port, err)
	}
	return &FirmataHandle{
		port:    port,
		adaptor: adaptor,
		open:    true,
		modes:   make(map[int]PinMode),
		levels:  make(map[int]Level),
	}, nil
}

// SetPinMode records the mode. Output pins are configured by the first write,
// input pins by the first read.
func (h *FirmataHandle) SetPinMode(pin int, mode PinMode) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.open {
		return fmt.Errorf("set mode on pin %d: %w", pin, models.ErrNotOpen)
	}
	h.modes[pin] = mode
	return nil
}

func (h *FirmataHandle) DigitalWrite(pin int, level Level) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.open {
		return fmt.Errorf("digital write pin %d: %w", pin, models.ErrNotOpen)
	}
	if err := h.adaptor.DigitalWrite(strconv.Itoa(pin), byte(level)); err != nil {
		h.open = false
		return fmt.Errorf("digital write pin %d on %s: %w: %v", pin, h.port, models.ErrTransport, err)
	}
	h.levels[pin] = level
	return nil
}

// DigitalRead returns the last written level for output pins, which is what
// the board reports for them, and samples the board for input pins.
func (h *FirmataHandle) DigitalRead(pin int) (Level, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.open {
		return Low, fmt.Errorf("digital read pin %d: %w", pin, models.ErrNotOpen)
	}
	if h.modes[pin] == ModeOutput {
		return h.levels[pin], nil
	}

	v, err := h.adaptor.DigitalRead(strconv.Itoa(pin))
	if err != nil {
		h.open = false
		return Low, fmt.Errorf("digital read pin %d on %s: %w: %v", pin, h.port, models.ErrTransport, err)
	}
	if v == 0 {
		return Low, nil
	}
	return High, nil
}

func (h *FirmataHandle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open
}

// Close releases the board. It is safe to call more than once.
func (h *FirmataHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.adaptor == nil {
		return nil
	}
	err := h.adaptor.Finalize()
	h.adaptor = nil
	h.open = false
	return err
}
