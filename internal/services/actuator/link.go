package actuator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tarm/serial"

	"peopledetect/internal/config"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
)

// Dialer opens a Handle on a serial port.
type Dialer func(port string) (Handle, error)

// Prober checks that a port can be opened before the board is dialed.
type Prober func(port string) error

// Link discovers the board among candidate serial ports.
type Link struct {
	Ports   []string // explicit candidates; empty means scan the system
	Pattern string   // ports whose name lacks it are skipped
	Settle  time.Duration
	Probe   Prober
	Dial    Dialer
	logger  *logger.Logger
}

// NewLink builds a Link that probes with tarm/serial and dials with Firmata.
func NewLink(cfg *config.Config, logger *logger.Logger) *Link {
	return &Link{
		Ports:   cfg.ActuatorPorts,
		Pattern: cfg.ActuatorPattern,
		Settle:  cfg.ActuatorSettle,
		Probe:   SerialProber(cfg.ActuatorBaud),
		Dial:    DialFirmata,
		logger:  logger,
	}
}

// Connect tries every candidate in turn and returns the first ready handle.
// It fails with models.ErrConnection when none answers.
func (l *Link) Connect(ctx context.Context) (Handle, error) {
	ports := l.Ports
	if len(ports) == 0 {
		var err error
		if ports, err = ListPorts(); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrConnection, err)
		}
	}

	tried := 0
	for _, port := range ports {
		if l.Pattern != "" && !strings.Contains(port, l.Pattern) {
			continue
		}
		tried++
		l.logger.Info("Trying actuator port %s", port)

		if l.Probe != nil {
			if err := l.Probe(port); err != nil {
				l.logger.Warning("Port %s not available: %v", port, err)
				continue
			}
		}

		// boards reset when the port is opened
		if err := sleep(ctx, l.Settle); err != nil {
			return nil, err
		}

		h, err := l.Dial(port)
		if err != nil {
			l.logger.Warning("Port %s: %v", port, err)
			continue
		}
		if !h.Ready() {
			l.logger.Warning("Port %s: board not ready", port)
			h.Close()
			continue
		}

		l.logger.Info("Actuator connected on %s", port)
		return h, nil
	}

	return nil, fmt.Errorf("%w: no ready board among %d candidate ports matching %q", models.ErrConnection, tried, l.Pattern)
}

// ListPorts returns the serial device nodes present on the system.
func ListPorts() ([]string, error) {
	var ports []string
	for _, pattern := range []string{"/dev/ttyACM*", "/dev/ttyUSB*", "/dev/cu.usbmodem*", "/dev/cu.usbserial*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		ports = append(ports, matches...)
	}
	sort.Strings(ports)
	return ports, nil
}

// SerialProber opens and closes the port at baud.
func SerialProber(baud int) Prober {
	return func(port string) error {
		p, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud, ReadTimeout: time.Second})
		if err != nil {
			return err
		}
		return p.Close()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
