package pipeline

// Segment is one timed caption: a span of narration text displayed from
// Start to End, in seconds from the beginning of playback.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the display time of the segment in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}
