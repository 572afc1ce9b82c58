package scanner

import (
	"fmt"
	"strings"
)

// Symbology identifies a barcode encoding standard.
type Symbology int

const (
	SymbologyUnknown Symbology = iota
	SymbologyEAN13
	SymbologyEAN8
	SymbologyUPCA
	SymbologyUPCE0
	SymbologyUPCE1
	SymbologyCode128
	SymbologyCode39
	SymbologyCode93
	SymbologyCode11
	SymbologyCodabar
	SymbologyInterleaved2of5
	SymbologyIndustrial2of5
	SymbologyMatrix2of5
	SymbologyMSI
	SymbologyRSS14
	SymbologyLimitedRSS
	SymbologyExpandedRSS
	SymbologyRSSStacked
	SymbologyPDF417
	SymbologyMicroPDF417
	SymbologyQR
	SymbologyMicroQR
	SymbologyDotMatrix
	SymbologyISBN
	SymbologyISSN
)

var symbologyNames = map[Symbology]string{
	SymbologyEAN13:           "EAN13",
	SymbologyEAN8:            "EAN8",
	SymbologyUPCA:            "UPCA",
	SymbologyUPCE0:           "UPCE0",
	SymbologyUPCE1:           "UPCE1",
	SymbologyCode128:         "Code128",
	SymbologyCode39:          "Code39",
	SymbologyCode93:          "Code93",
	SymbologyCode11:          "Code11",
	SymbologyCodabar:         "Codabar",
	SymbologyInterleaved2of5: "Interleaved 2of5",
	SymbologyIndustrial2of5:  "Industrial 2of5",
	SymbologyMatrix2of5:      "Matrix 2of5",
	SymbologyMSI:             "MSI-Plessey",
	SymbologyRSS14:           "GS1 Databar (RSS-14)",
	SymbologyLimitedRSS:      "GS1 Databar Limited",
	SymbologyExpandedRSS:     "GS1 Databar Expanded",
	SymbologyRSSStacked:      "GS1 Databar Stacked",
	SymbologyPDF417:          "PDF417",
	SymbologyMicroPDF417:     "Micro PDF417",
	SymbologyQR:              "QR",
	SymbologyMicroQR:         "Micro QR",
	SymbologyDotMatrix:       "Dot Matrix",
	SymbologyISBN:            "ISBN",
	SymbologyISSN:            "ISSN",
}

func (s Symbology) String() string {
	if name, ok := symbologyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown symbology %d", int(s))
}

// codeIDs maps the Code ID byte prefixed to a scan payload to the
// symbology it announces. Only the types the scanner actually reports
// appear here; everything else is an unsupported payload.
var codeIDs = map[byte]Symbology{
	0x51: SymbologyQR,
	0x62: SymbologyCode39,
	0x64: SymbologyEAN13,
	0x65: SymbologyInterleaved2of5,
	0x6A: SymbologyCode128,
	0x75: SymbologyDotMatrix,
}

// multiLine reports whether a symbology carries its payload as an
// ordered sequence of lines rather than a single line.
func (s Symbology) multiLine() bool {
	switch s {
	case SymbologyQR, SymbologyMicroQR, SymbologyDotMatrix:
		return true
	}
	return false
}

// Barcode is one decoded scan result. Linear symbologies carry a
// single line; matrix symbologies (QR, Dot Matrix) carry every line
// the scanner transmitted, in order.
type Barcode struct {
	Symbology Symbology
	Lines     []string
}

// Data returns the decoded payload as a single string. Matrix
// symbologies join their lines with newlines.
func (b *Barcode) Data() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Barcode) String() string {
	if !b.Symbology.multiLine() {
		return fmt.Sprintf("%s: %s", b.Symbology, b.Data())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:", b.Symbology)
	for i, line := range b.Lines {
		fmt.Fprintf(&sb, "\n%d: %s", i, line)
	}
	return sb.String()
}
