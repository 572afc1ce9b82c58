package scanner

import "github.com/sigurn/crc16"

// IgnoredChecksum marks a checksum that was never calculated.
// VerifyChecksum treats it as "skip verification".
const IgnoredChecksum uint16 = 0xABCD

// The scanner checksums with CRC-16/CCITT: polynomial 0x1021, initial
// value 0, no reflection, MSB first. That is the XMODEM parameter set.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Checksum computes the frame checksum over data.
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// VerifyChecksum compares the checksum of data against expected.
// An expected value of IgnoredChecksum always succeeds without
// computing anything.
func VerifyChecksum(data []byte, expected uint16) error {
	if expected == IgnoredChecksum {
		return nil
	}
	if computed := Checksum(data); computed != expected {
		return &ChecksumError{Expected: expected, Computed: computed}
	}
	return nil
}
