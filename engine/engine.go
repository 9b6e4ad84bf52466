// Package engine drives the five-stage course-building workflow: context
// gathering, content-gap analysis, outline, storyboard, and assessment.
//
// The engine owns one session. Each stage assembles a prompt from the
// accumulated course context, issues a single generation call, parses the
// response where a table is expected, and records the result. Stages only
// move forward; the one back-transition is Modify, which resets the whole
// session to context gathering. A failed generation call never mutates the
// context and never advances the stage, so every action can be retried
// with identical inputs.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	ai "github.com/didactlabs/didact"
	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
)

// Config holds the engine tunables.
type Config struct {
	// QuestionBudget is the number of core questions asked during context
	// gathering. Defaults to 7.
	QuestionBudget int

	// FollowUpBudget is the number of clarifying follow-ups allowed on top
	// of the core questions. Defaults to 2.
	FollowUpBudget int

	// AlwaysRegenerate disables derived-field caching: every stage entry
	// issues a fresh generation call even when a cached artifact exists.
	// The default policy is cache-until-invalidated with an explicit
	// Regenerate action.
	AlwaysRegenerate bool

	// Breakpoints overrides the duration-based assessment question
	// estimate. Empty means one question per ten minutes.
	Breakpoints []course.Breakpoint

	// DefaultQuestions is the assessment question count used when the
	// summary states neither a count nor a duration. Defaults to 5.
	DefaultQuestions int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		QuestionBudget:   7,
		FollowUpBudget:   2,
		DefaultQuestions: 5,
	}
}

func (c Config) withDefaults() Config {
	if c.QuestionBudget <= 0 {
		c.QuestionBudget = 7
	}
	if c.FollowUpBudget < 0 {
		c.FollowUpBudget = 0
	}
	if c.DefaultQuestions <= 0 {
		c.DefaultQuestions = 5
	}
	return c
}

// questionLimit is the hard cap on answered questions: core plus follow-ups.
func (c Config) questionLimit() int {
	return c.QuestionBudget + c.FollowUpBudget
}

// StageError wraps a failure inside a stage handler.
type StageError struct {
	Stage course.Stage
	Op    string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("engine: %s %s: %v", e.Stage, e.Op, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithEvents sets an optional channel for stage lifecycle events.
// Events are sent non-blocking; a full channel drops them.
func WithEvents(ch chan<- event.Event) Option {
	return func(e *Engine) {
		e.events = ch
	}
}

// Engine runs one course-building session against a generation backend.
// It is not safe for concurrent use: one session has one active mutator,
// and at most one generation call is in flight at a time.
type Engine struct {
	gen    ai.Generator
	course *course.Context
	cfg    Config
	log    *slog.Logger
	events chan<- event.Event

	// Gathering conversation state.
	currentQuestion string
	complete        bool

	// Analysis state.
	analysis     string
	analysisDone bool

	// Assessment opt-out.
	assessmentSkipped bool
}

// New creates an engine for a fresh session.
func New(gen ai.Generator, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		gen:    gen,
		course: course.NewContext(),
		cfg:    cfg.withDefaults(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Course returns the session context.
func (e *Engine) Course() *course.Context {
	return e.course
}

// Stage returns the current stage.
func (e *Engine) Stage() course.Stage {
	return e.course.Stage()
}

// ContextComplete reports whether context gathering has finished.
func (e *Engine) ContextComplete() bool {
	return e.complete
}

// Analysis returns the gap-analysis text, empty until AnalyzeGaps runs.
func (e *Engine) Analysis() string {
	return e.analysis
}

// generate issues one gateway call under the given system prompt.
func (e *Engine) generate(ctx context.Context, system, prompt string, opts ...ai.Option) (string, error) {
	resp, err := e.gen.Generate(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(prompt),
	}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Advance moves the session to the next stage if the current stage's exit
// guard is satisfied. It never issues a generation call.
func (e *Engine) Advance() error {
	current := e.course.Stage()

	switch current {
	case course.GatherContext:
		if !e.complete {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("context gathering is not complete")}
		}
		if e.course.Summary() == "" {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("summary has not been generated")}
		}
	case course.AnalyzeContent:
		if e.course.SourceContent() != "" && !e.analysisDone {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("gap analysis decision is pending")}
		}
	case course.GenerateOutline:
		if e.course.OutlineRaw() == "" {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("outline has not been generated")}
		}
	case course.GenerateStoryboard:
		if e.course.StoryboardRaw() == "" {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("storyboard has not been generated")}
		}
	case course.CreateAssessment:
		if e.course.Assessment() == "" && !e.assessmentSkipped {
			return &StageError{Stage: current, Op: "advance", Err: fmt.Errorf("assessment has not been generated or skipped")}
		}
	case course.Done:
		return nil
	}

	next := current.Next()
	e.course.SetStage(next)
	e.log.Debug("stage advanced", "from", current.String(), "to", next.String())
	event.Emit(e.events, event.Event{Type: event.StageEnd, Stage: current})
	if next == course.Done {
		event.Emit(e.events, event.Event{Type: event.RunEnd, Stage: next})
	}
	return nil
}

// Modify resets the session to context gathering from any stage, clearing
// the answers and every derived field.
func (e *Engine) Modify() {
	from := e.course.Stage()
	e.course.Reset()
	e.currentQuestion = ""
	e.complete = false
	e.analysis = ""
	e.analysisDone = false
	e.assessmentSkipped = false
	e.log.Info("session reset to context gathering", "from", from.String())
	event.Emit(e.events, event.Event{Type: event.StageReset, Stage: from})
}

// Regenerate invalidates the derived artifact of the given stage so the
// next stage entry generates it afresh. Downstream artifacts built on the
// invalidated one are cleared too.
func (e *Engine) Regenerate(stage course.Stage) error {
	switch stage {
	case course.GatherContext:
		e.course.ClearSummary()
	case course.AnalyzeContent:
		e.analysis = ""
		e.analysisDone = false
	case course.GenerateOutline:
		e.course.ClearOutline()
	case course.GenerateStoryboard:
		e.course.ClearStoryboard()
	case course.CreateAssessment:
		e.course.ClearAssessment()
		e.assessmentSkipped = false
	default:
		return fmt.Errorf("engine: cannot regenerate %s", stage)
	}
	e.log.Debug("artifact invalidated", "stage", stage.String())
	return nil
}
