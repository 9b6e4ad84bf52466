// Package course holds the session state for one course-building run: the
// ordered workflow stages, the accumulated context, and the narrow text
// heuristics the stages rely on.
package course

import "fmt"

// Stage identifies one phase of the course-building workflow.
type Stage int

const (
	// GatherContext collects course details through a question loop.
	GatherContext Stage = iota

	// AnalyzeContent compares the gathered context against source material.
	AnalyzeContent

	// GenerateOutline produces the topic/duration outline table.
	GenerateOutline

	// GenerateStoryboard produces the slide-by-slide storyboard table.
	GenerateStoryboard

	// CreateAssessment produces the final assessment questions.
	CreateAssessment

	// Done is the terminal stage; no further mutation occurs.
	Done
)

var stageNames = map[Stage]string{
	GatherContext:      "gather_context",
	AnalyzeContent:     "analyze_content",
	GenerateOutline:    "generate_outline",
	GenerateStoryboard: "generate_storyboard",
	CreateAssessment:   "create_assessment",
	Done:               "done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Next returns the stage that follows s. Done is its own successor.
func (s Stage) Next() Stage {
	if s >= Done {
		return Done
	}
	return s + 1
}

// Terminal reports whether the stage is Done.
func (s Stage) Terminal() bool {
	return s == Done
}

// ParseStage resolves a stage name produced by String. Used when loading
// persisted sessions.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("course: unknown stage %q", name)
}
