package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"interviewlens/internal/model"
)

func TestDefaultRubricValid(t *testing.T) {
	r := DefaultRubric()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rubric invalid: %v", err)
	}
	if len(r.Criteria) != 10 {
		t.Errorf("len(Criteria) = %d, want 10", len(r.Criteria))
	}
}

func TestRubricWeightsMustSumToOne(t *testing.T) {
	r := DefaultRubric()
	r.Criteria[0].Weight = 0.5
	err := r.Validate()
	var ce *model.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want ConfigurationError", err)
	}
}

func TestRubricRejectsDuplicateKeys(t *testing.T) {
	r := DefaultRubric()
	r.Criteria[1].Key = r.Criteria[0].Key
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for duplicate criterion key")
	}
}

func TestRubricRejectsUnknownMode(t *testing.T) {
	r := DefaultRubric()
	r.Criteria[0].Mode = "telepathic"
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for unknown score mode")
	}
}

func TestRubricRejectsUnanchoredBands(t *testing.T) {
	r := DefaultRubric()
	r.Bands = []Band{{Min: 75, Label: "strong hire"}, {Min: 10, Label: "no hire"}}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error when lowest band does not start at 0")
	}
}

func TestBandLookup(t *testing.T) {
	r := DefaultRubric()
	cases := []struct {
		score int
		want  string
	}{
		{0, "no hire"},
		{39, "no hire"},
		{40, "borderline"},
		{60, "hire"},
		{70, "hire"},
		{74, "hire"},
		{75, "strong hire"},
		{100, "strong hire"},
	}
	for _, tc := range cases {
		if got := r.Band(tc.score); got != tc.want {
			t.Errorf("Band(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestLoadRubricEmptyPathGivesDefault(t *testing.T) {
	r, err := LoadRubric("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Criterion("communication"); !ok {
		t.Error("default rubric missing communication criterion")
	}
}

func TestLoadRubricFromFile(t *testing.T) {
	body := `criteria:
  - key: communication
    name: Communication
    weight: 0.6
  - key: technical
    name: Technical
    weight: 0.4
    mode: verbal
bands:
  - min: 50
    label: hire
  - min: 0
    label: no hire
`
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRubric(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := r.Criterion("communication")
	if !ok {
		t.Fatal("communication criterion not loaded")
	}
	if c.Mode != ModeBoth {
		t.Errorf("mode = %q, want both as the default", c.Mode)
	}
	if got := r.Band(55); got != "hire" {
		t.Errorf("Band(55) = %q, want hire", got)
	}
}

func TestLoadRubricMissingFile(t *testing.T) {
	if _, err := LoadRubric("/nonexistent/rubric.yaml"); err == nil {
		t.Fatal("expected error for missing rubric file")
	}
}
