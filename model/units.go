package model

import "math"

// Unit conversion constants.
const (
	EMUPerMillimetre = 36000       // DrawingML English Metric Units
	EMUPerInch       = 914400      // 25.4 mm
	TwipsPerInch     = 1440        // WordprocessingML twentieths of a point
	MillimetresPerIn = 25.4        // Millimetres per inch
	TwipsPerMM       = 1440 / 25.4 // ≈56.69
)

// MillimetresToEMU converts millimetres to EMU, rounding to the nearest unit.
func MillimetresToEMU(mm float64) int64 {
	return int64(math.Round(mm * EMUPerMillimetre))
}

// EMUToMillimetres converts EMU to millimetres.
func EMUToMillimetres(emu int64) float64 {
	return float64(emu) / EMUPerMillimetre
}

// MillimetresToTwips converts millimetres to twips, rounding to the nearest
// unit. A4 (210x297 mm) becomes 11906x16838.
func MillimetresToTwips(mm float64) int {
	return int(math.Round(mm * TwipsPerMM))
}

// TwipsToMillimetres converts twips to millimetres.
func TwipsToMillimetres(twips int) float64 {
	return float64(twips) / TwipsPerMM
}

// PixelsPerInch returns the density of px pixels spread over mm millimetres.
func PixelsPerInch(px int, mm float64) float64 {
	if mm <= 0 {
		return 0
	}
	return float64(px) / (mm / MillimetresPerIn)
}
