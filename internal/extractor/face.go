package extractor

import (
	"context"

	"interviewlens/internal/model"
)

// FaceClient talks to the facial-analysis sidecar. It yields emotion,
// eye contact, posture and gesture rate samples from the video track.
type FaceClient struct {
	sidecarClient
}

// NewFaceClient creates a new facial-analysis client.
func NewFaceClient(baseURL string) *FaceClient {
	return &FaceClient{sidecarClient: newSidecarClient("face", baseURL)}
}

func (c *FaceClient) Source() string { return "face" }

// faceFrame is one sampled video frame in the sidecar response.
type faceFrame struct {
	At          float64 `json:"at"`
	Emotion     string  `json:"emotion"`
	EmotionConf float64 `json:"emotion_confidence"`
	EyeContact  float64 `json:"eye_contact"`  // 0-100
	Posture     float64 `json:"posture"`      // 0-10
	GestureRate float64 `json:"gesture_rate"` // per minute
	Confidence  float64 `json:"confidence"`
}

type faceResponse struct {
	Frames []faceFrame `json:"frames"`
}

// Extract runs facial analysis on the video and flattens the per-frame
// response into signal samples.
func (c *FaceClient) Extract(ctx context.Context, mediaURL string) ([]model.SignalSample, error) {
	var resp faceResponse
	if err := c.post(ctx, "/analyze", mediaURL, &resp); err != nil {
		return nil, &model.ExtractionError{Source: c.Source(), Err: err}
	}

	samples := make([]model.SignalSample, 0, len(resp.Frames)*4)
	for _, f := range resp.Frames {
		if f.Emotion != "" {
			samples = append(samples, model.SignalSample{
				Kind: model.SignalEmotion, At: f.At, Label: f.Emotion, Confidence: f.EmotionConf,
			})
		}
		samples = append(samples,
			model.SignalSample{Kind: model.SignalEyeContact, At: f.At, Value: f.EyeContact, Confidence: f.Confidence},
			model.SignalSample{Kind: model.SignalPosture, At: f.At, Value: f.Posture, Confidence: f.Confidence},
			model.SignalSample{Kind: model.SignalGestureRate, At: f.At, Value: f.GestureRate, Confidence: f.Confidence},
		)
	}
	return samples, nil
}
