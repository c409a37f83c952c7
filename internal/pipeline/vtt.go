package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// formatVTTTime converts seconds to WebVTT time format HH:MM:SS.mmm.
func formatVTTTime(seconds float64) string {
	totalSec := math.Abs(seconds)
	hours := int(totalSec / 3600)
	remainder := math.Mod(totalSec, 3600)
	minutes := int(remainder / 60)
	secs := math.Mod(remainder, 60)
	millis := int(math.Mod(secs, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, int(secs), millis)
}

// FormatVTT renders segments as a WebVTT document.
func FormatVTT(segments []Segment, maxCPL int) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n")

	for _, seg := range segments {
		text := optimizeTextDisplay(seg.Text, maxCPL)
		fmt.Fprintf(&sb, "\n%s --> %s\n%s\n", formatVTTTime(seg.Start), formatVTTTime(seg.End), text)
	}
	return sb.String()
}
