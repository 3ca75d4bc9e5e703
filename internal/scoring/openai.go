package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"interviewlens/internal/model"
)

// OpenAIScorer scores criteria through the OpenAI chat API.
type OpenAIScorer struct {
	client openai.Client
	model  string
}

// NewOpenAIScorer creates a scorer bound to one chat model.
func NewOpenAIScorer(apiKey, modelName string) *OpenAIScorer {
	return &OpenAIScorer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}
}

// Score makes one chat completion call and parses the criterion verdict.
func (s *OpenAIScorer) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	system, user := buildScorePrompt(req)
	text, err := s.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var resp ScoreResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse score response: %w", err)
	}
	return &resp, nil
}

// ClassifyPhases makes one chat completion call and parses the phase spans.
func (s *OpenAIScorer) ClassifyPhases(ctx context.Context, req PhaseRequest) ([]model.PhaseSpan, error) {
	system, user := buildPhasePrompt(req)
	text, err := s.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Phases []struct {
			Phase       string `json:"phase"`
			FromSegment int    `json:"from_segment"`
			ToSegment   int    `json:"to_segment"`
			Complexity  int    `json:"complexity"`
		} `json:"phases"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse phase response: %w", err)
	}

	spans := make([]model.PhaseSpan, 0, len(parsed.Phases))
	for _, p := range parsed.Phases {
		if p.FromSegment < 0 || p.ToSegment >= req.SegmentCount || p.FromSegment > p.ToSegment {
			continue
		}
		spans = append(spans, model.PhaseSpan{
			Phase:       p.Phase,
			FromSegment: p.FromSegment,
			ToSegment:   p.ToSegment,
			Complexity:  p.Complexity,
		})
	}
	return spans, nil
}

func (s *OpenAIScorer) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
