package analysis

import "interviewlens/internal/model"

// FallbackPhases assigns interview phases by position when no classifier
// output is available: the first fifth is introduction, up to half is
// experience, up to four fifths technical, the rest problem solving.
func FallbackPhases(numSegments int) []model.PhaseSpan {
	if numSegments <= 0 {
		return nil
	}
	type cut struct {
		phase      string
		upto       int // exclusive segment index
		complexity int
	}
	cuts := []cut{
		{model.PhaseIntro, numSegments / 5, 2},
		{model.PhaseExperience, numSegments / 2, 4},
		{model.PhaseTechnical, numSegments * 4 / 5, 7},
		{model.PhaseProblemSolving, numSegments, 8},
	}

	var phases []model.PhaseSpan
	start := 0
	for _, c := range cuts {
		if c.upto <= start {
			continue
		}
		phases = append(phases, model.PhaseSpan{
			Phase:       c.phase,
			FromSegment: start,
			ToSegment:   c.upto - 1,
			Complexity:  c.complexity,
		})
		start = c.upto
	}
	return phases
}
