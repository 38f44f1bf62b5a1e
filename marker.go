package jfif

import "fmt"

// Marker is a JPEG marker code, the byte that follows the 0xFF marker
// indicator on the wire. Values are stored without the 0xFF prefix.
type Marker uint8

const (
	MarkerIndicator byte = 0xFF // introduces every marker on the wire

	SOI Marker = 0xD8 // Start of Image
	EOI Marker = 0xD9 // End of Image
	SOS Marker = 0xDA // Start of Scan

	RST0 Marker = 0xD0
	RST1 Marker = 0xD1
	RST2 Marker = 0xD2
	RST3 Marker = 0xD3
	RST4 Marker = 0xD4
	RST5 Marker = 0xD5
	RST6 Marker = 0xD6
	RST7 Marker = 0xD7

	APP0  Marker = 0xE0
	APP1  Marker = 0xE1
	APP2  Marker = 0xE2
	APP3  Marker = 0xE3
	APP4  Marker = 0xE4
	APP5  Marker = 0xE5
	APP6  Marker = 0xE6
	APP7  Marker = 0xE7
	APP8  Marker = 0xE8
	APP9  Marker = 0xE9
	APP10 Marker = 0xEA
	APP11 Marker = 0xEB
	APP12 Marker = 0xEC
	APP13 Marker = 0xED
	APP14 Marker = 0xEE
	APP15 Marker = 0xEF

	COM Marker = 0xFE

	SOF0 Marker = 0xC0
	SOF1 Marker = 0xC1
	SOF2 Marker = 0xC2
	SOF3 Marker = 0xC3

	DHT Marker = 0xC4
	DQT Marker = 0xDB
	DRI Marker = 0xDD
	DNL Marker = 0xDC
)

// IsRestart reports whether m is one of RST0..RST7.
func (m Marker) IsRestart() bool {
	return m >= RST0 && m <= RST7
}

// IsStandalone reports whether segments with this marker carry no length
// field and no body (SOI, EOI, and the restart markers).
func (m Marker) IsStandalone() bool {
	return m == SOI || m == EOI || m.IsRestart()
}

func (m Marker) String() string {
	if name, ok := markerNames[m]; ok {
		return name
	}
	return fmt.Sprintf("marker(0x%02X)", uint8(m))
}

var markerNames = map[Marker]string{
	SOI: "SOI", EOI: "EOI", SOS: "SOS",
	RST0: "RST0", RST1: "RST1", RST2: "RST2", RST3: "RST3",
	RST4: "RST4", RST5: "RST5", RST6: "RST6", RST7: "RST7",
	APP0: "APP0", APP1: "APP1", APP2: "APP2", APP3: "APP3",
	APP4: "APP4", APP5: "APP5", APP6: "APP6", APP7: "APP7",
	APP8: "APP8", APP9: "APP9", APP10: "APP10", APP11: "APP11",
	APP12: "APP12", APP13: "APP13", APP14: "APP14", APP15: "APP15",
	COM: "COM", SOF0: "SOF0", SOF1: "SOF1", SOF2: "SOF2", SOF3: "SOF3",
	DHT: "DHT", DQT: "DQT", DRI: "DRI", DNL: "DNL",
}
