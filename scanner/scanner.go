package scanner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ronnybremer/waveshare-barcodescanner/transports"
)

// Scan timeout limits. One device timeout unit is 100 ms, stored in a
// single byte, so 25.5 s is the longest scan window the hardware can
// represent.
const (
	DefaultScanTimeout = 5 * time.Second
	MaxScanTimeout     = 25500 * time.Millisecond
)

// pollInterval is the short read timeout longer deadlines are
// composed from.
const pollInterval = 100 * time.Millisecond

// Device register addresses used by the driver.
const (
	regMode            uint16 = 0x0000
	regScanControl     uint16 = 0x0002
	regSettingLock     uint16 = 0x0003
	regScanTimeout     uint16 = 0x0006
	regScanArea        uint16 = 0x002C
	regDecodeOptions   uint16 = 0x0060
	regFactoryReset    uint16 = 0x00D9
	regHardwareVersion uint16 = 0x00E1
	regSoftwareVersion uint16 = 0x00E2
	regSoftwareYear    uint16 = 0x00E3
	regSoftwareMonth   uint16 = 0x00E4
	regSoftwareDay     uint16 = 0x00E5
)

// decodeOptions is the payload framing the driver relies on: Code ID
// prefix enabled, CR as the end-of-data character, no protocol/RF/
// prefix/suffix bytes. Applied unconditionally at session start so
// ReadBarcode sees a deterministic stream.
const decodeOptions byte = 0x04 | 0x01

// Payload line terminators.
const (
	lineFeed       = 0x0A
	carriageReturn = 0x0D
)

// Scanner is one session on a barcode scanner's serial link. It owns
// the transport for its lifetime. The protocol is half duplex; an
// internal mutex serializes callers onto one round trip at a time.
type Scanner struct {
	transport    Transport
	replyTimeout time.Duration
	log          zerolog.Logger

	mu          sync.Mutex
	scanTimeout time.Duration
	closed      bool
}

// Config holds configuration for creating a new Scanner.
type Config struct {
	// Transport is the underlying communication transport.
	// If nil, Port must be specified to open a serial connection.
	Transport Transport

	// Port is the serial port path (e.g., "/dev/ttyAMA0"). The device
	// must be in UART mode at its factory line settings (9600 8N1).
	// Ignored if Transport is provided.
	Port string

	// ScanTimeout is the scan window ReadBarcode waits for. Default is
	// 5 seconds, matching the device default.
	ScanTimeout time.Duration

	// ReplyTimeout bounds the wait for a command reply. Default is 1 second.
	ReplyTimeout time.Duration

	// Logger receives frame-level trace and debug events. The zero
	// value discards everything.
	Logger zerolog.Logger
}

// NewScanner opens a session and applies the decoding options the
// driver depends on.
func NewScanner(cfg Config) (*Scanner, error) {
	if cfg.ScanTimeout == 0 {
		cfg.ScanTimeout = DefaultScanTimeout
	}
	if cfg.ReplyTimeout == 0 {
		cfg.ReplyTimeout = time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		if cfg.Port == "" {
			return nil, errors.New("either Transport or Port must be specified")
		}
		var err error
		transport, err = transports.OpenSerial(transports.SerialConfig{
			Port: cfg.Port,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open serial port: %w", err)
		}
	}

	s := &Scanner{
		transport:    transport,
		replyTimeout: cfg.ReplyTimeout,
		log:          cfg.Logger,
		scanTimeout:  cfg.ScanTimeout,
	}

	// Drop whatever a previous session left unread.
	if err := transport.Flush(); err != nil {
		transport.Close()
		return nil, fmt.Errorf("failed to discard pending input: %w", err)
	}

	if err := s.WriteRegister(regDecodeOptions, []byte{decodeOptions}); err != nil {
		transport.Close()
		return nil, fmt.Errorf("failed to apply decoding options: %w", err)
	}

	return s, nil
}

// Close closes the session and releases the transport.
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.transport.Close()
}

// ReadRegister reads len(dst) bytes from the given device address into
// dst and returns the number of bytes the device reported. len(dst)
// must be in [1, 256].
func (s *Scanner) ReadRegister(address uint16, dst []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	return s.readRegisterLocked(address, dst)
}

// WriteRegister writes data to the given device address and waits for
// the acknowledgement reply.
func (s *Scanner) WriteRegister(address uint16, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.writeRegisterLocked(address, data)
}

// StartScan activates the scan window. In manual and command mode the
// device stops on its own once a barcode is recognized or the scan
// timeout elapses.
func (s *Scanner) StartScan() error {
	if err := s.WriteRegister(regScanControl, []byte{0x01}); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	return nil
}

// StopScan deactivates the scan window.
func (s *Scanner) StopScan() error {
	if err := s.WriteRegister(regScanControl, []byte{0x00}); err != nil {
		return fmt.Errorf("stop scan: %w", err)
	}
	return nil
}

// SetScanTimeout sets the scan window duration on the device and for
// subsequent ReadBarcode calls. The device accepts 1 ms to 25.5 s in
// 100 ms steps; zero (indefinite waiting) is not supported.
func (s *Scanner) SetScanTimeout(timeout time.Duration) error {
	if timeout == 0 {
		return errors.New("this driver does not support indefinite waiting")
	}
	if timeout < time.Millisecond || timeout > MaxScanTimeout {
		return fmt.Errorf("scan timeout %v out of range [1ms, %v]", timeout, MaxScanTimeout)
	}
	value := byte(timeout.Milliseconds() / 100)
	if err := s.WriteRegister(regScanTimeout, []byte{value}); err != nil {
		return err
	}

	s.mu.Lock()
	s.scanTimeout = timeout
	s.mu.Unlock()
	return nil
}

// ScanTimeout returns the currently configured scan window.
func (s *Scanner) ScanTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanTimeout
}

// ReadBarcode waits for a scan payload and decodes it. It returns
// (nil, nil) when no barcode was recognized before the scan timeout;
// that is a normal outcome, not an error.
func (s *Scanner) ReadBarcode() (*Barcode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	var codeID [1]byte
	n, err := s.readExactDeadline(codeID[:], s.scanTimeout)
	if err != nil {
		return nil, &CommError{Op: "read barcode", Err: err}
	}
	if n == 0 || codeID[0] == 0x00 {
		// 0x00 is not a valid Code ID
		s.log.Debug().Msg("timeout waiting for barcode data")
		return nil, nil
	}

	// The device is actively transmitting now; line reads carry no
	// deadline of their own.
	var lines []string
	for {
		line, endOfData, err := s.readLine()
		if err != nil {
			return nil, &CommError{Op: "read barcode", Err: err}
		}
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
		if endOfData {
			break
		}
	}
	if len(lines) == 0 {
		s.log.Debug().Msg("no barcode data was read from the device")
		return nil, nil
	}
	s.log.Debug().Int("lines", len(lines)).Msg("barcode data read from the device")

	sym, ok := codeIDs[codeID[0]]
	if !ok {
		return nil, &UnsupportedSymbologyError{CodeID: codeID[0]}
	}
	if !sym.multiLine() {
		lines = lines[:1]
	}
	return &Barcode{Symbology: sym, Lines: lines}, nil
}

// SaveToFlash persists all pending setting changes on the device.
func (s *Scanner) SaveToFlash() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	frame := rawFrame(FuncSave, 1, 0x0000, nil, []byte{0x00})
	var ack [1]byte
	if _, err := s.roundTrip(frame, ack[:]); err != nil {
		return &CommError{Op: "save to flash", Err: err}
	}
	return nil
}

// FactoryReset restores the device to factory defaults. The device
// leaves UART mode afterwards and must be re-enabled via the
// corresponding setting barcode.
func (s *Scanner) FactoryReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.writeRegisterLocked(regFactoryReset, []byte{0x50}); err != nil {
		return fmt.Errorf("factory reset: %w", err)
	}
	return nil
}

// Internal methods

func (s *Scanner) readRegisterLocked(address uint16, dst []byte) (int, error) {
	frame, err := ReadFrame(address, len(dst))
	if err != nil {
		return 0, err
	}
	n, err := s.roundTrip(frame, dst)
	if err != nil {
		return 0, &CommError{Op: "read register", Err: err}
	}
	return n, nil
}

func (s *Scanner) writeRegisterLocked(address uint16, data []byte) error {
	frame, err := WriteFrame(address, data)
	if err != nil {
		return err
	}
	// The reply to a write is a single ack byte in the usual envelope.
	var ack [1]byte
	if _, err := s.roundTrip(frame, ack[:]); err != nil {
		return &CommError{Op: "write register", Err: err}
	}
	return nil
}

// roundTrip performs one half-duplex exchange: transmit frame, read
// back exactly len(dst)+6 bytes, validate, extract the payload.
func (s *Scanner) roundTrip(frame, dst []byte) (int, error) {
	if err := s.writeFrame(frame); err != nil {
		return 0, err
	}
	reply := make([]byte, len(dst)+replyOverhead)
	if err := s.readReply(reply); err != nil {
		return 0, err
	}
	s.log.Trace().Hex("reply", reply).Msg("read from serial")
	return parseReply(reply, dst)
}

func (s *Scanner) writeFrame(frame []byte) error {
	s.log.Trace().Hex("frame", frame).Msg("write to serial")
	n, err := s.transport.Write(frame)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("incomplete write: %d of %d bytes", n, len(frame))
	}
	return nil
}

// readReply fills buf with a complete command reply or fails. A reply
// that never starts is ErrNoResponse; one that stalls midway is
// ErrTimeout.
func (s *Scanner) readReply(buf []byte) error {
	n, err := s.readExactDeadline(buf, s.replyTimeout)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoResponse
	}
	if n < len(buf) {
		return fmt.Errorf("%w: read %d of %d expected bytes", ErrTimeout, n, len(buf))
	}
	return nil
}

// readExactDeadline accumulates exactly len(buf) bytes through short
// poll reads until the deadline elapses. Reaching the deadline is not
// an error: the caller distinguishes "nothing arrived" from an I/O
// fault by the returned count.
func (s *Scanner) readExactDeadline(buf []byte, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	total := 0
	for total < len(buf) {
		s.transport.SetReadTimeout(pollInterval)
		n, err := s.transport.Read(buf[total:])
		if err != nil {
			return total, fmt.Errorf("read error: %w", err)
		}
		total += n
		if n == 0 && !time.Now().Before(deadline) {
			break
		}
	}
	return total, nil
}

// readByte reads a single byte with no deadline.
func (s *Scanner) readByte() (byte, error) {
	var b [1]byte
	for {
		s.transport.SetReadTimeout(pollInterval)
		n, err := s.transport.Read(b[:])
		if err != nil {
			return 0, fmt.Errorf("read error: %w", err)
		}
		if n > 0 {
			return b[0], nil
		}
	}
}

// readLine accumulates payload bytes until a terminator. A line feed
// ends the current line; a carriage return ends the whole payload.
func (s *Scanner) readLine() ([]byte, bool, error) {
	var line []byte
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, false, err
		}
		switch b {
		case lineFeed:
			return line, false, nil
		case carriageReturn:
			return line, true, nil
		default:
			line = append(line, b)
		}
	}
}
