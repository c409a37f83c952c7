package config

// NarrationSettings holds the text-to-narration tuning parameters.
type NarrationSettings struct {
	WordsPerMinute  float64 `yaml:"words_per_minute"`
	WordsPerSegment int     `yaml:"words_per_segment"`
	MaxChunkChars   int     `yaml:"max_chunk_chars"`
	MaxCharsPerLine int     `yaml:"max_chars_per_line"`
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`

	// Voice rendering tuning. Zero means the synthesis API's defaults.
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
}

// VideoSettings holds the ffmpeg composition parameters.
type VideoSettings struct {
	Encoder      string `yaml:"encoder"`
	VideoBitrate string `yaml:"video_bitrate"`
	Preset       string `yaml:"preset"`
}

// Config holds the full application configuration.
type Config struct {
	Narration NarrationSettings `yaml:"narration"`
	Video     VideoSettings     `yaml:"video"`

	MaxConcurrentChunks int `yaml:"max_concurrent_chunks"`
	MaxRetries          int `yaml:"max_retries"`
	APIRateLimitPerMin  int `yaml:"api_rate_limit_per_min"`
}

// Default returns a Config with the built-in defaults. Captions use six
// words per segment; the reading-speed estimate assumes 150 words per
// minute.
func Default() *Config {
	return &Config{
		Narration: NarrationSettings{
			WordsPerMinute:  150,
			WordsPerSegment: 6,
			MaxChunkChars:   2400,
			MaxCharsPerLine: 42,
		},
		Video: VideoSettings{
			Encoder:      "libx264",
			VideoBitrate: "2M",
			Preset:       "medium",
		},
		MaxConcurrentChunks: 3,
		MaxRetries:          3,
		APIRateLimitPerMin:  30,
	}
}
