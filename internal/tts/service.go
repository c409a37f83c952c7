// Package tts wraps the ElevenLabs text-to-speech HTTP API behind an
// injected service object. The voice catalog is fetched lazily, once, and
// cached for the life of the service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultBaseURL   = "https://api.elevenlabs.io"
	defaultModelID   = "eleven_multilingual_v2"
	defaultVoiceID   = "21m00Tcm4TlvDq8ikWAM" // Rachel
	synthesisTimeout = 5 * time.Minute
)

// Synthesizer converts a text fragment to audio bytes. The worker depends
// on this interface so synthesis can be faked in tests.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Voice describes one synthesis voice from the catalog.
type Voice struct {
	ID       string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Options configures a Service.
type Options struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string // overridden in tests

	// Stability and SimilarityBoost tune the voice rendering. When both
	// are zero the request omits voice_settings and the API defaults
	// apply.
	Stability       float64
	SimilarityBoost float64
}

// Service is the single coordination point for speech synthesis. Callers
// receive it explicitly rather than through a package-level singleton.
type Service struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	tuning  *voiceSettings
	client  *http.Client

	initOnce sync.Once
	initErr  error
	voices   []Voice
}

// NewService creates a Service. No network access happens until Init or
// the first Synthesize call.
func NewService(opts Options) *Service {
	s := &Service{
		apiKey:  opts.APIKey,
		voiceID: opts.VoiceID,
		modelID: opts.ModelID,
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: synthesisTimeout},
	}
	if s.voiceID == "" {
		s.voiceID = defaultVoiceID
	}
	if s.modelID == "" {
		s.modelID = defaultModelID
	}
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	if opts.Stability > 0 || opts.SimilarityBoost > 0 {
		s.tuning = &voiceSettings{
			Stability:       opts.Stability,
			SimilarityBoost: opts.SimilarityBoost,
		}
	}
	return s
}

// Init loads the voice catalog exactly once. A failed init stays failed;
// callers that only need Synthesize may skip Init entirely.
func (s *Service) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.voices, s.initErr = s.fetchVoices(ctx)
	})
	return s.initErr
}

// Voices returns the cached voice catalog. Init must have succeeded.
func (s *Service) Voices() []Voice {
	return s.voices
}

func (s *Service) fetchVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("voices API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}
	return payload.Voices, nil
}

// synthesisRequest is the JSON body for a text-to-speech call.
type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to MP3 bytes using the configured voice.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       s.modelID,
		VoiceSettings: s.tuning,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128",
		s.baseURL, url.PathEscape(s.voiceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("TTS API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("TTS API returned empty audio")
	}
	return audio, nil
}

func (s *Service) setAuth(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("xi-api-key", s.apiKey)
	}
}
