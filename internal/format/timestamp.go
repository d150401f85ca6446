// Package format renders subtitle-grade clock text from second offsets.
package format

import "fmt"

// Separator selects the fractional-second separator for subtitle timestamps.
type Separator rune

const (
	// SeparatorComma is the SRT dialect.
	SeparatorComma Separator = ','
	// SeparatorPeriod is the WebVTT dialect.
	SeparatorPeriod Separator = '.'
)

// Timestamp renders a non-negative seconds offset as HH:MM:SS<sep>mmm.
// Hours are not clamped to 24, and milliseconds are truncated rather than
// rounded. Negative input is a caller precondition violation; the output
// for it is undefined.
func Timestamp(seconds float64, sep Separator) string {
	whole := int64(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int64((seconds - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
