// Package scanner provides a Go driver for the Waveshare Barcode
// Scanner Module attached over a serial port.
package scanner

import (
	"encoding/binary"
	"fmt"
)

// Command frame header bytes.
const (
	startMarker  = 0x7E
	reservedByte = 0x00
)

// Reply frame header bytes.
const (
	replyHeader1 = 0x02
	replyHeader2 = 0x00
)

// Function types per the scanner's serial protocol.
const (
	FuncRead  byte = 0x07
	FuncWrite byte = 0x08
	FuncSave  byte = 0x09
)

// replyOverhead is the envelope around a reply payload:
// header(2) + status(1) + length(1) + checksum(2).
const replyOverhead = 6

// rawFrame builds a complete outgoing frame. replyLen, if non-nil, is
// the single requested-reply-length byte of a read frame; payload, if
// non-nil, is the data of a write frame. The checksum covers every
// byte from the function type onwards.
func rawFrame(function, length byte, address uint16, replyLen []byte, payload []byte) []byte {
	buf := make([]byte, 0, 8+len(replyLen)+len(payload))
	buf = append(buf, startMarker, reservedByte, function, length)
	buf = binary.BigEndian.AppendUint16(buf, address)
	buf = append(buf, replyLen...)
	buf = append(buf, payload...)
	return binary.BigEndian.AppendUint16(buf, Checksum(buf[2:]))
}

// ReadFrame builds a read command requesting replyLen bytes from the
// given address. replyLen must be in [1, 256]; the scanner expects a
// length byte of 0 when 256 bytes should be returned.
func ReadFrame(address uint16, replyLen int) ([]byte, error) {
	if replyLen < 1 || replyLen > 256 {
		return nil, fmt.Errorf("requested reply length %d out of range [1, 256]", replyLen)
	}
	return rawFrame(FuncRead, 1, address, []byte{byte(replyLen)}, nil), nil
}

// WriteFrame builds a write command carrying payload for the given
// address. The length byte shares the 0-for-256 sentinel of the read
// side.
func WriteFrame(address uint16, payload []byte) ([]byte, error) {
	if len(payload) < 1 || len(payload) > 256 {
		return nil, fmt.Errorf("write payload length %d out of range [1, 256]", len(payload))
	}
	return rawFrame(FuncWrite, byte(len(payload)), address, nil, payload), nil
}

// parseReply validates a complete reply frame and copies its payload
// into dst. buf must hold the full reply including the 6-byte
// envelope. Returns the effective payload length, which is never
// allowed to exceed len(dst).
func parseReply(buf, dst []byte) (int, error) {
	if len(buf) < replyOverhead {
		return 0, fmt.Errorf("%w: got %d bytes", ErrShortReply, len(buf))
	}
	if buf[0] != replyHeader1 || buf[1] != replyHeader2 {
		return 0, fmt.Errorf("%w: % 02X", ErrInvalidHeader, buf[:2])
	}
	if buf[2] != 0x00 {
		return 0, &StatusError{Code: buf[2]}
	}
	received := binary.BigEndian.Uint16(buf[len(buf)-2:])
	if err := VerifyChecksum(buf[2:len(buf)-2], received); err != nil {
		return 0, err
	}
	dataLen := int(buf[3])
	// the scanner reports a length of 0 when 256 bytes have been returned
	if dataLen == 0 {
		dataLen = 256
	}
	if dataLen > len(buf)-replyOverhead || dataLen > len(dst) {
		return 0, fmt.Errorf("reply payload of %d bytes exceeds %d byte destination", dataLen, len(dst))
	}
	copy(dst, buf[4:4+dataLen])
	return dataLen, nil
}
