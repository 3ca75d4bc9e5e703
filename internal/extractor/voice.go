package extractor

import (
	"context"

	"interviewlens/internal/model"
)

// VoiceClient talks to the prosody-analysis sidecar. It yields energy,
// pitch variation and pause rate samples from the audio track.
type VoiceClient struct {
	sidecarClient
}

// NewVoiceClient creates a new prosody-analysis client.
func NewVoiceClient(baseURL string) *VoiceClient {
	return &VoiceClient{sidecarClient: newSidecarClient("voice", baseURL)}
}

func (c *VoiceClient) Source() string { return "voice" }

// voiceFrame is one sampled audio window in the sidecar response.
type voiceFrame struct {
	At             float64 `json:"at"`
	Energy         float64 `json:"energy"`          // 0-1
	PitchVariation float64 `json:"pitch_variation"` // Hz
	PauseRate      float64 `json:"pause_rate"`      // per minute
	Confidence     float64 `json:"confidence"`
}

type voiceResponse struct {
	Frames []voiceFrame `json:"frames"`
}

// Extract runs prosody analysis on the audio and flattens the per-window
// response into signal samples.
func (c *VoiceClient) Extract(ctx context.Context, mediaURL string) ([]model.SignalSample, error) {
	var resp voiceResponse
	if err := c.post(ctx, "/analyze", mediaURL, &resp); err != nil {
		return nil, &model.ExtractionError{Source: c.Source(), Err: err}
	}

	samples := make([]model.SignalSample, 0, len(resp.Frames)*3)
	for _, f := range resp.Frames {
		samples = append(samples,
			model.SignalSample{Kind: model.SignalEnergy, At: f.At, Value: f.Energy, Confidence: f.Confidence},
			model.SignalSample{Kind: model.SignalPitchVariation, At: f.At, Value: f.PitchVariation, Confidence: f.Confidence},
			model.SignalSample{Kind: model.SignalPauseRate, At: f.At, Value: f.PauseRate, Confidence: f.Confidence},
		)
	}
	return samples, nil
}
