package extractor

import (
	"context"

	"interviewlens/internal/model"
)

// SpeechClient talks to the speech-recognition sidecar. It produces the
// transcript plus speech rate and clarity samples derived from it.
type SpeechClient struct {
	sidecarClient
}

// NewSpeechClient creates a new speech-recognition client.
func NewSpeechClient(baseURL string) *SpeechClient {
	return &SpeechClient{sidecarClient: newSidecarClient("speech", baseURL)}
}

func (c *SpeechClient) Source() string { return "speech" }

type speechUtterance struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	SpeechRate float64 `json:"speech_rate"` // words per minute
	Clarity    float64 `json:"clarity"`     // 0-10
	Confidence float64 `json:"confidence"`
}

type speechResponse struct {
	Language   string            `json:"language"`
	Utterances []speechUtterance `json:"utterances"`
}

// Analyze runs speech recognition once and returns both the timed
// transcript and the speech-derived signal samples, anchored at each
// utterance's start time.
func (c *SpeechClient) Analyze(ctx context.Context, mediaURL string) (*model.Transcript, []model.SignalSample, error) {
	var resp speechResponse
	if err := c.post(ctx, "/analyze", mediaURL, &resp); err != nil {
		return nil, nil, &model.ExtractionError{Source: c.Source(), Err: err}
	}

	t := &model.Transcript{Language: resp.Language, Utterances: make([]model.Utterance, 0, len(resp.Utterances))}
	samples := make([]model.SignalSample, 0, len(resp.Utterances)*2)
	for _, u := range resp.Utterances {
		t.Utterances = append(t.Utterances, model.Utterance{Start: u.Start, End: u.End, Text: u.Text})
		samples = append(samples,
			model.SignalSample{Kind: model.SignalSpeechRate, At: u.Start, Value: u.SpeechRate, Confidence: u.Confidence},
			model.SignalSample{Kind: model.SignalClarity, At: u.Start, Value: u.Clarity, Confidence: u.Confidence},
		)
	}
	return t, samples, nil
}

// Transcribe runs speech recognition and returns only the transcript.
func (c *SpeechClient) Transcribe(ctx context.Context, mediaURL string) (*model.Transcript, error) {
	t, _, err := c.Analyze(ctx, mediaURL)
	return t, err
}

// Extract returns only the speech-derived signal samples.
func (c *SpeechClient) Extract(ctx context.Context, mediaURL string) ([]model.SignalSample, error) {
	_, samples, err := c.Analyze(ctx, mediaURL)
	return samples, err
}
