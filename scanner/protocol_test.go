package scanner

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestReadFrame(t *testing.T) {
	// Read 1 byte from address 0x000A:
	// 7E 00 07 01 00 0A 01, checksum EE8A over [07 01 00 0A 01]
	frame, err := ReadFrame(0x000A, 1)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	expected := []byte{0x7E, 0x00, 0x07, 0x01, 0x00, 0x0A, 0x01, 0xEE, 0x8A}
	if !bytes.Equal(frame, expected) {
		t.Errorf("ReadFrame: got % 02X, want % 02X", frame, expected)
	}
}

func TestReadFrame_Length256Sentinel(t *testing.T) {
	// One byte cannot hold 256; the device expects 0x00 instead.
	frame, err := ReadFrame(0x0123, 256)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	expected := []byte{0x7E, 0x00, 0x07, 0x01, 0x01, 0x23, 0x00, 0x75, 0xE5}
	if !bytes.Equal(frame, expected) {
		t.Errorf("ReadFrame: got % 02X, want % 02X", frame, expected)
	}
}

func TestReadFrame_LengthOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 257} {
		if _, err := ReadFrame(0x0000, n); err == nil {
			t.Errorf("ReadFrame with reply length %d: expected error", n)
		}
	}
}

func TestWriteFrame(t *testing.T) {
	// Write 0x3E to address 0x000A:
	// 7E 00 08 01 00 0A 3E, checksum 4CCF over [08 01 00 0A 3E]
	frame, err := WriteFrame(0x000A, []byte{0x3E})
	if err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	expected := []byte{0x7E, 0x00, 0x08, 0x01, 0x00, 0x0A, 0x3E, 0x4C, 0xCF}
	if !bytes.Equal(frame, expected) {
		t.Errorf("WriteFrame: got % 02X, want % 02X", frame, expected)
	}
}

func TestWriteFrame_PayloadBounds(t *testing.T) {
	if _, err := WriteFrame(0x0000, nil); err == nil {
		t.Error("WriteFrame with empty payload: expected error")
	}
	if _, err := WriteFrame(0x0000, make([]byte, 257)); err == nil {
		t.Error("WriteFrame with 257 byte payload: expected error")
	}

	// 256 bytes encode as the 0x00 length sentinel.
	frame, err := WriteFrame(0x0000, make([]byte, 256))
	if err != nil {
		t.Fatalf("WriteFrame with 256 byte payload failed: %v", err)
	}
	if frame[3] != 0x00 {
		t.Errorf("length byte: got %02X, want 00", frame[3])
	}
}

// buildReply assembles a valid reply frame around payload for parser
// tests, encoding 256 as a length byte of 0.
func buildReply(status byte, payload []byte) []byte {
	body := []byte{status, byte(len(payload))}
	body = append(body, payload...)
	reply := append([]byte{replyHeader1, replyHeader2}, body...)
	return binary.BigEndian.AppendUint16(reply, Checksum(body))
}

func TestParseReply(t *testing.T) {
	// 02 00 00 01 3E E4 AC
	reply := buildReply(0x00, []byte{0x3E})

	var dst [1]byte
	n, err := parseReply(reply, dst[:])
	if err != nil {
		t.Fatalf("parseReply failed: %v", err)
	}
	if n != 1 {
		t.Errorf("length: got %d, want 1", n)
	}
	if dst[0] != 0x3E {
		t.Errorf("payload: got %02X, want 3E", dst[0])
	}
}

func TestParseReply_RoundTripLengths(t *testing.T) {
	for _, length := range []int{1, 2, 7, 255, 256} {
		payload := make([]byte, length)
		for i := range payload {
			payload[i] = byte(i)
		}
		reply := buildReply(0x00, payload)

		dst := make([]byte, length)
		n, err := parseReply(reply, dst)
		if err != nil {
			t.Fatalf("parseReply with %d byte payload failed: %v", length, err)
		}
		if n != length {
			t.Errorf("length %d: got %d bytes", length, n)
		}
		if !bytes.Equal(dst, payload) {
			t.Errorf("length %d: payload mismatch", length)
		}
	}
}

func TestParseReply_ShortReply(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x02}, {0x02, 0x00, 0x00, 0x01, 0x00}} {
		var dst [1]byte
		_, err := parseReply(buf, dst[:])
		if !errors.Is(err, ErrShortReply) {
			t.Errorf("parseReply(% 02X): got %v, want ErrShortReply", buf, err)
		}
	}
}

func TestParseReply_InvalidHeader(t *testing.T) {
	reply := buildReply(0x00, []byte{0x3E})
	reply[0] = 0x7E

	var dst [1]byte
	_, err := parseReply(reply, dst[:])
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("got %v, want ErrInvalidHeader", err)
	}

	reply = buildReply(0x00, []byte{0x3E})
	reply[1] = 0x01
	_, err = parseReply(reply, dst[:])
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("got %v, want ErrInvalidHeader", err)
	}
}

func TestParseReply_StatusError(t *testing.T) {
	reply := buildReply(0x05, []byte{0x00})

	var dst [1]byte
	_, err := parseReply(reply, dst[:])
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.Code != 0x05 {
		t.Errorf("status code: got %d, want 5", serr.Code)
	}
}

func TestParseReply_ChecksumMismatch(t *testing.T) {
	reply := buildReply(0x00, []byte{0x3E})
	// Flip one bit of the payload so the trailing checksum no longer matches.
	reply[4] ^= 0x01

	var dst [1]byte
	_, err := parseReply(reply, dst[:])
	var cerr *ChecksumError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
}

func TestParseReply_IgnoredChecksum(t *testing.T) {
	// A reply whose trailing bytes happen to be the sentinel is
	// accepted without verification.
	reply := []byte{replyHeader1, replyHeader2, 0x00, 0x01, 0x3E, 0xAB, 0xCD}

	var dst [1]byte
	n, err := parseReply(reply, dst[:])
	if err != nil {
		t.Fatalf("parseReply failed: %v", err)
	}
	if n != 1 || dst[0] != 0x3E {
		t.Errorf("got n=%d payload=%02X, want n=1 payload=3E", n, dst[0])
	}
}

func TestParseReply_PayloadExceedsDestination(t *testing.T) {
	reply := buildReply(0x00, []byte{0x01, 0x02})

	var dst [1]byte
	_, err := parseReply(reply, dst[:])
	if err == nil {
		t.Fatal("expected error for payload exceeding destination capacity")
	}
}
