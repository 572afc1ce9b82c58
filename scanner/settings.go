package scanner

import (
	"fmt"
	"time"
)

// TargetLightMode controls the green targeting light.
type TargetLightMode byte

const (
	// TargetLightOff disables the target light.
	TargetLightOff TargetLightMode = iota
	// TargetLightAlwaysOn keeps the target light on, also when not scanning.
	TargetLightAlwaysOn
	// TargetLightStandard turns the target light on during scanning.
	TargetLightStandard
)

// IlluminationMode controls the white LED used for object detection in
// dark environments.
type IlluminationMode byte

const (
	// IlluminationOff disables the white LED; scanning in dark
	// environments might be difficult.
	IlluminationOff IlluminationMode = iota
	// IlluminationAlwaysOn keeps the white LED on, also when not scanning.
	IlluminationAlwaysOn
	// IlluminationStandard turns the white LED on during scanning.
	IlluminationStandard
)

// OperationMode selects how a scan is initiated.
type OperationMode byte

const (
	// OperationManual starts a scan on the push button.
	OperationManual OperationMode = iota
	// OperationCommand starts a scan on the StartScan command.
	OperationCommand
	// OperationContinuous scans continuously.
	OperationContinuous
	// OperationSensing starts scanning on ambient brightness changes.
	OperationSensing
)

// ScanArea restricts where in the camera view barcodes are detected.
type ScanArea byte

const (
	// ScanAreaAll uses the entire area of view.
	ScanAreaAll ScanArea = iota
	// ScanAreaCenter uses only the center area (default 20%) of the view.
	ScanAreaCenter
)

// BarcodeSet selects which group of barcode types the device recognizes.
type BarcodeSet byte

const (
	// BarcodesDisableAll disables every barcode type.
	BarcodesDisableAll BarcodeSet = iota
	// BarcodesEnableAll enables every type the device supports.
	BarcodesEnableAll
	// BarcodesDefault enables the device's default set.
	BarcodesDefault
)

// ModeConfig holds the operation and indicator settings applied by SetMode.
type ModeConfig struct {
	// LEDIndication lights the board LED shortly after a successful scan.
	LEDIndication bool
	// Buzzer confirms a successful scan with a short tone.
	Buzzer bool

	TargetLight  TargetLightMode
	Illumination IlluminationMode
	Operation    OperationMode
}

// SetMode sets the mode of operation and the light/buzzer parameters.
// Only manual and command scanning are currently exercised by this
// driver; continuous and sensing modes are passed through as-is.
func (s *Scanner) SetMode(cfg ModeConfig) error {
	var mode byte
	if cfg.LEDIndication {
		mode |= 0x80
	}
	if cfg.Buzzer {
		mode |= 0x40
	}
	switch cfg.TargetLight {
	case TargetLightAlwaysOn:
		mode |= 0x20
	case TargetLightStandard:
		mode |= 0x10
	}
	switch cfg.Illumination {
	case IlluminationAlwaysOn:
		mode |= 0x08
	case IlluminationStandard:
		mode |= 0x04
	}
	switch cfg.Operation {
	case OperationCommand:
		mode |= 0x01
	case OperationContinuous:
		mode |= 0x02
	case OperationSensing:
		mode |= 0x03
	}
	return s.WriteRegister(regMode, []byte{mode})
}

// SetScanArea sets the detection area and the allowed barcode group.
func (s *Scanner) SetScanArea(area ScanArea, allowed BarcodeSet) error {
	var setting byte
	if area == ScanAreaCenter {
		setting |= 0x08
	}
	switch allowed {
	case BarcodesEnableAll:
		setting |= 0x02
	case BarcodesDefault:
		setting |= 0x04
	}
	return s.WriteRegister(regScanArea, []byte{setting})
}

// DisableSettingCodes disables setting changes via scanned setting
// barcodes. Recommended for production use.
func (s *Scanner) DisableSettingCodes() error {
	var buf [1]byte
	if _, err := s.ReadRegister(regSettingLock, buf[:]); err != nil {
		return err
	}
	buf[0] &= 0xFE
	buf[0] |= 0x02
	return s.WriteRegister(regSettingLock, buf[:])
}

// EnableSettingCodes re-enables setting changes via scanned setting
// barcodes.
func (s *Scanner) EnableSettingCodes() error {
	var buf [1]byte
	if _, err := s.ReadRegister(regSettingLock, buf[:]); err != nil {
		return err
	}
	buf[0] &= 0xFC
	return s.WriteRegister(regSettingLock, buf[:])
}

var firmwareVersions = map[byte]string{
	0x64: "V1.00",
	0x6E: "V1.10",
	0x78: "V1.20",
	0x82: "V1.30",
	0x8C: "V1.40",
}

// HardwareVersion returns the hardware version of the attached scanner.
func (s *Scanner) HardwareVersion() (string, error) {
	return s.versionAt(regHardwareVersion)
}

// SoftwareVersion returns the firmware version of the attached scanner.
func (s *Scanner) SoftwareVersion() (string, error) {
	return s.versionAt(regSoftwareVersion)
}

func (s *Scanner) versionAt(address uint16) (string, error) {
	var buf [1]byte
	if _, err := s.ReadRegister(address, buf[:]); err != nil {
		return "", err
	}
	if v, ok := firmwareVersions[buf[0]]; ok {
		return v, nil
	}
	return fmt.Sprintf("unknown %02X", buf[0]), nil
}

// SoftwareDate returns the firmware build date of the attached scanner.
func (s *Scanner) SoftwareDate() (time.Time, error) {
	var buf [1]byte
	if _, err := s.ReadRegister(regSoftwareYear, buf[:]); err != nil {
		return time.Time{}, err
	}
	// only the years past 2000 are reported
	year := 2000 + int(buf[0])
	if _, err := s.ReadRegister(regSoftwareMonth, buf[:]); err != nil {
		return time.Time{}, err
	}
	month := int(buf[0])
	if _, err := s.ReadRegister(regSoftwareDay, buf[:]); err != nil {
		return time.Time{}, err
	}
	day := int(buf[0])

	// time.Date normalizes out-of-range components (Feb 30 becomes
	// Mar 1), so verify the date round-trips instead of range checking.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("invalid build date: year %d month %d day %d", year, month, day)
	}
	return d, nil
}
