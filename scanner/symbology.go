package scanner

import "fmt"

// symbologyRegisters lists the configuration registers of one
// symbology. minLen and maxLen are 0 for types without length
// filtering.
type symbologyRegisters struct {
	enable uint16
	minLen uint16
	maxLen uint16
}

var symbologyTable = map[Symbology]symbologyRegisters{
	SymbologyRSSStacked:      {enable: 0x0026},
	SymbologyMicroPDF417:     {enable: 0x0029},
	SymbologyEAN13:           {enable: 0x002E},
	SymbologyEAN8:            {enable: 0x002F},
	SymbologyUPCA:            {enable: 0x0030},
	SymbologyUPCE0:           {enable: 0x0031},
	SymbologyUPCE1:           {enable: 0x0032},
	SymbologyCode128:         {enable: 0x0033, minLen: 0x0034, maxLen: 0x0035},
	SymbologyCode39:          {enable: 0x0036, minLen: 0x0037, maxLen: 0x0038},
	SymbologyCode93:          {enable: 0x0039, minLen: 0x003A, maxLen: 0x003B},
	SymbologyCodabar:         {enable: 0x003C, minLen: 0x003D, maxLen: 0x003E},
	SymbologyQR:              {enable: 0x003F},
	SymbologyInterleaved2of5: {enable: 0x0040, minLen: 0x0041, maxLen: 0x0042},
	SymbologyIndustrial2of5:  {enable: 0x0043, minLen: 0x0044, maxLen: 0x0045},
	SymbologyMatrix2of5:      {enable: 0x0046, minLen: 0x0047, maxLen: 0x0048},
	SymbologyCode11:          {enable: 0x0049, minLen: 0x004A, maxLen: 0x004B},
	SymbologyMSI:             {enable: 0x004C, minLen: 0x004D, maxLen: 0x004E},
	SymbologyRSS14:           {enable: 0x004F},
	SymbologyLimitedRSS:      {enable: 0x0050},
	SymbologyExpandedRSS:     {enable: 0x0051, minLen: 0x0052, maxLen: 0x0053},
	SymbologyDotMatrix:       {enable: 0x0054},
	SymbologyPDF417:          {enable: 0x0055},
	SymbologyISSN:            {enable: 0x0056},
	SymbologyISBN:            {enable: 0x0057},
	SymbologyMicroQR:         {enable: 0x005F},
}

// SymbologyConfig holds optional per-symbology settings applied when
// enabling a type. Zero values leave the device defaults untouched.
type SymbologyConfig struct {
	// MinLength is the shortest barcode accepted as valid, where the
	// symbology supports length filtering.
	MinLength byte
	// MaxLength is the longest barcode accepted as valid.
	MaxLength byte
	// StartStop transmits the start/stop characters. Codabar only.
	StartStop bool
}

// ConfigureSymbology enables or disables recognition of one barcode
// type, applying the optional length limits first so a partially
// configured type is never left enabled.
func (s *Scanner) ConfigureSymbology(sym Symbology, enable bool, cfg SymbologyConfig) error {
	regs, ok := symbologyTable[sym]
	if !ok {
		return fmt.Errorf("symbology %v is not configurable on this device", sym)
	}
	if !enable {
		return s.WriteRegister(regs.enable, []byte{0x00})
	}
	if cfg.MinLength != 0 {
		if regs.minLen == 0 {
			return fmt.Errorf("symbology %v does not support a minimum length", sym)
		}
		if err := s.WriteRegister(regs.minLen, []byte{cfg.MinLength}); err != nil {
			return err
		}
	}
	if cfg.MaxLength != 0 {
		if regs.maxLen == 0 {
			return fmt.Errorf("symbology %v does not support a maximum length", sym)
		}
		if err := s.WriteRegister(regs.maxLen, []byte{cfg.MaxLength}); err != nil {
			return err
		}
	}
	value := byte(0x01)
	if cfg.StartStop && sym == SymbologyCodabar {
		value |= 0x02
	}
	return s.WriteRegister(regs.enable, []byte{value})
}

// EnableSymbology enables recognition of one barcode type with the
// device's default settings.
func (s *Scanner) EnableSymbology(sym Symbology) error {
	return s.ConfigureSymbology(sym, true, SymbologyConfig{})
}

// DisableSymbology disables recognition of one barcode type.
func (s *Scanner) DisableSymbology(sym Symbology) error {
	return s.ConfigureSymbology(sym, false, SymbologyConfig{})
}
