package engine

import (
	"context"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
)

// CreateAssessment generates the final assessment questions. If the
// context summary does not indicate a graded assessment was requested,
// the stage is skipped without a gateway call and the session moves to
// Done. The question count comes from an explicit number in the summary
// when one is stated, otherwise from the course duration, otherwise from
// Config.DefaultQuestions.
func (e *Engine) CreateAssessment(ctx context.Context) (string, error) {
	if err := e.requireStage(course.CreateAssessment, "create assessment"); err != nil {
		return "", err
	}
	if e.course.StoryboardRaw() == "" {
		return "", &course.MissingUpstreamError{Stage: course.CreateAssessment, Missing: "storyboard"}
	}
	if a := e.course.Assessment(); a != "" && !e.cfg.AlwaysRegenerate {
		return a, nil
	}

	if course.WantsAssessment(e.course.Summary()) != course.Yes {
		e.assessmentSkipped = true
		e.course.SetStage(course.Done)
		e.log.Info("assessment skipped", "reason", "summary does not request a graded assessment")
		event.Emit(e.events, event.Event{Type: event.StageSkipped, Stage: course.CreateAssessment})
		event.Emit(e.events, event.Event{Type: event.RunEnd, Stage: course.Done})
		return "", nil
	}

	questions := e.questionCount()

	event.Emit(e.events, event.Event{Type: event.StageStart, Stage: course.CreateAssessment})
	raw, err := e.generate(ctx, assistantSystemPrompt,
		assessmentPrompt(e.course.Summary(), e.course.OutlineRaw(), questions))
	if err != nil {
		return "", &StageError{Stage: course.CreateAssessment, Op: "create assessment", Err: err}
	}
	if err := e.course.SetAssessment(raw); err != nil {
		return "", err
	}
	e.log.Debug("assessment generated", "questions", questions)
	return raw, nil
}

// SkipAssessment records an explicit opt-out and finishes the session.
func (e *Engine) SkipAssessment() error {
	if err := e.requireStage(course.CreateAssessment, "skip assessment"); err != nil {
		return err
	}
	e.assessmentSkipped = true
	e.course.SetStage(course.Done)
	e.log.Info("assessment skipped", "reason", "user opt-out")
	event.Emit(e.events, event.Event{Type: event.StageSkipped, Stage: course.CreateAssessment})
	event.Emit(e.events, event.Event{Type: event.RunEnd, Stage: course.Done})
	return nil
}

// questionCount resolves the assessment question count from the summary.
func (e *Engine) questionCount() int {
	summary := e.course.Summary()
	if n := course.ExtractQuestionCount(summary); n > 0 {
		return n
	}
	if minutes := course.ExtractDurationMinutes(summary); minutes > 0 {
		return course.EstimateQuestionCount(minutes, e.cfg.Breakpoints)
	}
	return e.cfg.DefaultQuestions
}
