package course

import "fmt"

// QA is one answered question. Answers keep their insertion order because
// the summary prompt walks them in the order they were asked.
type QA struct {
	Question string
	Answer   string
}

// OutlineRow is one outline entry: a topic and its allotted duration.
type OutlineRow struct {
	Topic    string
	Duration string
}

// StoryboardRow is one storyboard slide.
type StoryboardRow struct {
	OnscreenText            string
	VoiceOverScript         string
	VisualizationGuidelines string
}

// MissingUpstreamError reports an attempt to set or generate a derived
// field whose required upstream input is absent.
type MissingUpstreamError struct {
	// Stage is the stage that was attempted.
	Stage Stage

	// Missing names the absent prerequisite.
	Missing string
}

func (e *MissingUpstreamError) Error() string {
	return fmt.Sprintf("course: %s requires %s", e.Stage, e.Missing)
}

// WrongStageError reports an operation invoked outside its valid stage.
type WrongStageError struct {
	Op      string
	Current Stage
	Want    Stage
}

func (e *WrongStageError) Error() string {
	return fmt.Sprintf("course: %s is only valid in %s (current stage %s)", e.Op, e.Want, e.Current)
}

// Context is the accumulated state for one course-building session. It is
// created empty at session start, mutated only by stage handlers (one at a
// time, no concurrent access), and discarded at session end.
type Context struct {
	answers       []QA
	summary       string
	sourceContent string

	outline    []OutlineRow
	outlineRaw string

	storyboard    []StoryboardRow
	storyboardRaw string

	assessment string

	stage Stage
}

// NewContext creates an empty session context at the GatherContext stage.
func NewContext() *Context {
	return &Context{stage: GatherContext}
}

// Stage returns the current stage.
func (c *Context) Stage() Stage {
	return c.stage
}

// SetStage moves the session to the given stage. Stage ordering is the
// engine's responsibility; the context only records the position.
func (c *Context) SetStage(s Stage) {
	c.stage = s
}

// RecordAnswer appends an answered question, overwriting a previous answer
// to the same question. It fails outside the GatherContext stage.
func (c *Context) RecordAnswer(question, answer string) error {
	if c.stage != GatherContext {
		return &WrongStageError{Op: "RecordAnswer", Current: c.stage, Want: GatherContext}
	}
	for i := range c.answers {
		if c.answers[i].Question == question {
			c.answers[i].Answer = answer
			return nil
		}
	}
	c.answers = append(c.answers, QA{Question: question, Answer: answer})
	return nil
}

// Answers returns the answered questions in insertion order. The returned
// slice is a copy.
func (c *Context) Answers() []QA {
	out := make([]QA, len(c.answers))
	copy(out, c.answers)
	return out
}

// AnswerCount returns the number of answered questions.
func (c *Context) AnswerCount() int {
	return len(c.answers)
}

// SetSummary caches the context digest. It requires at least one answer.
func (c *Context) SetSummary(text string) error {
	if len(c.answers) == 0 {
		return &MissingUpstreamError{Stage: GatherContext, Missing: "answered questions"}
	}
	c.summary = text
	return nil
}

// Summary returns the cached context digest, empty until generated.
func (c *Context) Summary() string {
	return c.summary
}

// SetSourceContent replaces the extracted source text.
func (c *Context) SetSourceContent(text string) {
	c.sourceContent = text
}

// AppendSourceContent adds text (extracted documents or generated filler)
// to the source content.
func (c *Context) AppendSourceContent(text string) {
	if text == "" {
		return
	}
	if c.sourceContent != "" {
		c.sourceContent += "\n\n"
	}
	c.sourceContent += text
}

// SourceContent returns the accumulated source text, possibly empty.
func (c *Context) SourceContent() string {
	return c.sourceContent
}

// SetOutline stores the parsed outline rows and the raw response they came
// from. It requires the summary to exist. rows may be nil when parsing
// failed; raw must still be kept so the artifact is not lost.
func (c *Context) SetOutline(rows []OutlineRow, raw string) error {
	if c.summary == "" {
		return &MissingUpstreamError{Stage: GenerateOutline, Missing: "context summary"}
	}
	c.outline = rows
	c.outlineRaw = raw
	return nil
}

// Outline returns the parsed outline rows, nil if parsing failed.
func (c *Context) Outline() []OutlineRow {
	return c.outline
}

// OutlineRaw returns the raw outline response text.
func (c *Context) OutlineRaw() string {
	return c.outlineRaw
}

// SetStoryboard stores the parsed storyboard rows and their raw response.
// It requires the outline artifact (parsed or raw) to exist.
func (c *Context) SetStoryboard(rows []StoryboardRow, raw string) error {
	if c.outlineRaw == "" {
		return &MissingUpstreamError{Stage: GenerateStoryboard, Missing: "course outline"}
	}
	c.storyboard = rows
	c.storyboardRaw = raw
	return nil
}

// Storyboard returns the parsed storyboard rows, nil if parsing failed.
func (c *Context) Storyboard() []StoryboardRow {
	return c.storyboard
}

// StoryboardRaw returns the raw storyboard response text.
func (c *Context) StoryboardRaw() string {
	return c.storyboardRaw
}

// SetAssessment stores the assessment text. It requires the storyboard
// artifact to exist.
func (c *Context) SetAssessment(text string) error {
	if c.storyboardRaw == "" {
		return &MissingUpstreamError{Stage: CreateAssessment, Missing: "storyboard"}
	}
	c.assessment = text
	return nil
}

// Assessment returns the assessment text, empty if not generated.
func (c *Context) Assessment() string {
	return c.assessment
}

// ClearSummary invalidates the cached summary.
func (c *Context) ClearSummary() {
	c.summary = ""
}

// ClearOutline invalidates the outline and everything derived from it.
func (c *Context) ClearOutline() {
	c.outline = nil
	c.outlineRaw = ""
	c.ClearStoryboard()
}

// ClearAssessment invalidates the assessment text.
func (c *Context) ClearAssessment() {
	c.assessment = ""
}

// ClearStoryboard invalidates the storyboard and the assessment.
func (c *Context) ClearStoryboard() {
	c.storyboard = nil
	c.storyboardRaw = ""
	c.assessment = ""
}

// Reset clears all fields and returns the session to GatherContext.
func (c *Context) Reset() {
	*c = Context{stage: GatherContext}
}
