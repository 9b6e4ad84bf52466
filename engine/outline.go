package engine

import (
	"context"
	"errors"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
	"github.com/didactlabs/didact/tabular"
)

// GenerateOutline produces the two-column course outline. The parsed rows
// land in the course context together with the raw response; when the
// response cannot be parsed the raw text is kept so nothing is lost, and
// the returned error is the *tabular.ParseError. A cached outline is
// returned without a gateway call unless AlwaysRegenerate is set.
func (e *Engine) GenerateOutline(ctx context.Context) ([]course.OutlineRow, error) {
	if err := e.requireStage(course.GenerateOutline, "generate outline"); err != nil {
		return nil, err
	}
	if e.course.Summary() == "" {
		return nil, &course.MissingUpstreamError{Stage: course.GenerateOutline, Missing: "context summary"}
	}
	if e.course.OutlineRaw() != "" && !e.cfg.AlwaysRegenerate {
		return e.course.Outline(), nil
	}

	event.Emit(e.events, event.Event{Type: event.StageStart, Stage: course.GenerateOutline})
	raw, err := e.generate(ctx, assistantSystemPrompt, outlinePrompt(e.course.Summary(), e.course.SourceContent()))
	if err != nil {
		return nil, &StageError{Stage: course.GenerateOutline, Op: "generate outline", Err: err}
	}

	table, parseErr := tabular.Parse(raw, tabular.Pipe, 2)
	if parseErr != nil {
		// Keep the raw artifact; the caller can show it and retry or advance.
		if err := e.course.SetOutline(nil, raw); err != nil {
			return nil, err
		}
		e.log.Warn("outline did not parse as a table", "error", parseErr)
		return nil, parseErr
	}

	rows := course.OutlineFromTable(table)
	if err := e.course.SetOutline(rows, raw); err != nil {
		return nil, err
	}
	if table.Dropped > 0 {
		e.log.Warn("outline rows dropped", "count", table.Dropped)
		event.Emit(e.events, event.Event{Type: event.RowsDropped, Stage: course.GenerateOutline, Dropped: table.Dropped})
	}
	e.log.Debug("outline generated", "rows", len(rows))
	return rows, nil
}

// IsParseError reports whether err is a tabular parse failure, meaning the
// raw artifact was kept and the session may still advance.
func IsParseError(err error) bool {
	var parseErr *tabular.ParseError
	return errors.As(err, &parseErr)
}
