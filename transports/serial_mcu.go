//go:build baremetal

package transports

import (
	"errors"
	"fmt"
	"machine"
	"time"
)

// MCUTransport implements the scanner transport on a microcontroller
// UART.
type MCUTransport struct {
	*machine.UART
}

// SerialConfig holds configuration for selecting a UART.
type SerialConfig struct {
	Port    string
	Timeout time.Duration
}

var currentTransport MCUTransport

// OpenSerial gets a UART configured at the scanner's fixed line speed.
func OpenSerial(cfg SerialConfig) (*MCUTransport, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port path is required")
	}

	switch cfg.Port {
	case "0":
		currentTransport = MCUTransport{machine.UART0}
	case "1":
		currentTransport = MCUTransport{machine.UART1}
	default:
		return nil, fmt.Errorf("unknown UART %s", cfg.Port)
	}

	currentTransport.SetBaudRate(9600)

	return &currentTransport, nil
}

// SetReadTimeout is a no-op: UART reads return immediately when no
// data is buffered, which is the poll behavior the driver expects.
func (t *MCUTransport) SetReadTimeout(timeout time.Duration) error {
	return nil
}

func (t *MCUTransport) Close() error {
	return nil
}

// Flush discards any buffered input data.
func (t *MCUTransport) Flush() error {
	for t.Buffered() > 0 {
		if _, err := t.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}
