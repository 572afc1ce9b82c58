package scanner

import (
	"testing"

	"github.com/ronnybremer/waveshare-barcodescanner/transports"
)

func TestConfigureSymbology_EnableWithLengths(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestScanner(t, mock)
	defer s.Close()

	// Min length, max length, then the enable write.
	mock.ReadData = append(ackReply(), ackReply()...)
	mock.ReadData = append(mock.ReadData, ackReply()...)

	err := s.ConfigureSymbology(SymbologyCode128, true, SymbologyConfig{
		MinLength: 4,
		MaxLength: 10,
	})
	if err != nil {
		t.Fatalf("ConfigureSymbology failed: %v", err)
	}

	frames := writtenFrames(t, mock)
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}

	checks := []struct {
		address uint16
		value   byte
	}{
		{0x0034, 4},  // min length
		{0x0035, 10}, // max length
		{0x0033, 1},  // enable
	}
	for i, c := range checks {
		frame := frames[i]
		addr := uint16(frame[4])<<8 | uint16(frame[5])
		if addr != c.address {
			t.Errorf("frame %d address: got %04X, want %04X", i, addr, c.address)
		}
		if frame[6] != c.value {
			t.Errorf("frame %d value: got %02X, want %02X", i, frame[6], c.value)
		}
	}
}

func TestConfigureSymbology_Disable(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestScanner(t, mock)
	defer s.Close()

	mock.ReadData = ackReply()
	if err := s.DisableSymbology(SymbologyQR); err != nil {
		t.Fatalf("DisableSymbology failed: %v", err)
	}

	frames := writtenFrames(t, mock)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	frame := frames[0]
	if frame[4] != 0x00 || frame[5] != 0x3F {
		t.Errorf("address: got %02X%02X, want 003F", frame[4], frame[5])
	}
	if frame[6] != 0x00 {
		t.Errorf("value: got %02X, want 00", frame[6])
	}
}

func TestConfigureSymbology_CodabarStartStop(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestScanner(t, mock)
	defer s.Close()

	mock.ReadData = ackReply()
	err := s.ConfigureSymbology(SymbologyCodabar, true, SymbologyConfig{StartStop: true})
	if err != nil {
		t.Fatalf("ConfigureSymbology failed: %v", err)
	}

	frame := writtenFrames(t, mock)[0]
	if frame[4] != 0x00 || frame[5] != 0x3C {
		t.Errorf("address: got %02X%02X, want 003C", frame[4], frame[5])
	}
	if frame[6] != 0x01|0x02 {
		t.Errorf("value: got %02X, want 03", frame[6])
	}
}

func TestConfigureSymbology_LengthUnsupported(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestScanner(t, mock)
	defer s.Close()

	// EAN13 has a fixed length; the device exposes no length registers.
	err := s.ConfigureSymbology(SymbologyEAN13, true, SymbologyConfig{MinLength: 8})
	if err == nil {
		t.Error("expected error for unsupported minimum length")
	}
	err = s.ConfigureSymbology(SymbologyEAN13, true, SymbologyConfig{MaxLength: 13})
	if err == nil {
		t.Error("expected error for unsupported maximum length")
	}
	if len(mock.WriteData) != 0 {
		t.Errorf("rejected configurations must not reach the device, wrote % 02X", mock.WriteData)
	}
}

func TestConfigureSymbology_Unknown(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestScanner(t, mock)
	defer s.Close()

	if err := s.EnableSymbology(SymbologyUnknown); err == nil {
		t.Error("expected error for a symbology without registers")
	}
}

func TestSymbologyTable_EnableAddressesUnique(t *testing.T) {
	seen := make(map[uint16]Symbology)
	for sym, regs := range symbologyTable {
		if other, dup := seen[regs.enable]; dup {
			t.Errorf("enable address %04X shared by %v and %v", regs.enable, sym, other)
		}
		seen[regs.enable] = sym
	}
}
