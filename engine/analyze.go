package engine

import (
	"context"
	"fmt"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
)

// Decision is the user's choice for addressing identified content gaps.
type Decision int

const (
	// DecisionUnset means no choice has been made yet.
	DecisionUnset Decision = iota

	// GenerateFiller asks the gateway to write content covering the gaps.
	GenerateFiller

	// MoreSources loops back so the user can supply additional documents.
	MoreSources

	// Proceed accepts the source content as is.
	Proceed
)

func (d Decision) String() string {
	switch d {
	case GenerateFiller:
		return "generate_filler"
	case MoreSources:
		return "more_sources"
	case Proceed:
		return "proceed"
	default:
		return "unset"
	}
}

// SkipAnalysis marks the analysis stage as resolved without a gateway
// call. Valid only when no source content was supplied.
func (e *Engine) SkipAnalysis() error {
	if err := e.requireStage(course.AnalyzeContent, "skip analysis"); err != nil {
		return err
	}
	if e.course.SourceContent() != "" {
		return &StageError{Stage: course.AnalyzeContent, Op: "skip analysis",
			Err: fmt.Errorf("source content is present; run the gap analysis instead")}
	}
	e.analysisDone = true
	e.log.Info("content analysis skipped", "reason", "no source content")
	event.Emit(e.events, event.Event{Type: event.StageSkipped, Stage: course.AnalyzeContent})
	return nil
}

// AnalyzeGaps compares the context summary against the source content and
// returns the gap analysis. The analysis is cached until invalidated.
func (e *Engine) AnalyzeGaps(ctx context.Context) (string, error) {
	if err := e.requireStage(course.AnalyzeContent, "analyze gaps"); err != nil {
		return "", err
	}
	if e.course.SourceContent() == "" {
		return "", &course.MissingUpstreamError{Stage: course.AnalyzeContent, Missing: "source content"}
	}
	if e.analysis != "" && !e.cfg.AlwaysRegenerate {
		return e.analysis, nil
	}

	event.Emit(e.events, event.Event{Type: event.StageStart, Stage: course.AnalyzeContent})
	analysis, err := e.generate(ctx, assistantSystemPrompt, gapAnalysisPrompt(e.course.Summary(), e.course.SourceContent()))
	if err != nil {
		return "", &StageError{Stage: course.AnalyzeContent, Op: "analyze gaps", Err: err}
	}
	e.analysis = analysis
	e.log.Debug("gap analysis generated")
	return analysis, nil
}

// ChooseDecision resolves the gap analysis with one of the three
// remediation decisions. GenerateFiller issues one gateway call and
// appends the generated material to the source content. MoreSources
// leaves the stage open so extraction can run again. Proceed accepts the
// content unchanged.
func (e *Engine) ChooseDecision(ctx context.Context, d Decision) error {
	if err := e.requireStage(course.AnalyzeContent, "choose decision"); err != nil {
		return err
	}
	if e.analysis == "" {
		return &course.MissingUpstreamError{Stage: course.AnalyzeContent, Missing: "gap analysis"}
	}

	switch d {
	case GenerateFiller:
		filler, err := e.generate(ctx, assistantSystemPrompt, fillGapsPrompt(e.analysis))
		if err != nil {
			return &StageError{Stage: course.AnalyzeContent, Op: "generate filler", Err: err}
		}
		e.course.AppendSourceContent(filler)
		e.analysisDone = true
		e.log.Info("gap filler content generated")
	case MoreSources:
		// Invalidate the analysis; new documents need a fresh comparison.
		e.analysis = ""
		e.analysisDone = false
		e.log.Info("awaiting additional source documents")
	case Proceed:
		e.analysisDone = true
		e.log.Info("proceeding with source content unchanged")
	default:
		return &StageError{Stage: course.AnalyzeContent, Op: "choose decision",
			Err: fmt.Errorf("unknown decision %d", int(d))}
	}
	return nil
}

func (e *Engine) requireStage(want course.Stage, op string) error {
	if e.course.Stage() != want {
		return &StageError{Stage: e.course.Stage(), Op: op,
			Err: fmt.Errorf("valid only in %s", want)}
	}
	return nil
}
