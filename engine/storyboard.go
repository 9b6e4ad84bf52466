package engine

import (
	"context"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
	"github.com/didactlabs/didact/tabular"
)

// GenerateStoryboard produces the three-column storyboard from the outline
// and context. Parsing failures keep the raw response, same as the
// outline stage. A cached storyboard is returned without a gateway call
// unless AlwaysRegenerate is set.
func (e *Engine) GenerateStoryboard(ctx context.Context) ([]course.StoryboardRow, error) {
	if err := e.requireStage(course.GenerateStoryboard, "generate storyboard"); err != nil {
		return nil, err
	}
	if e.course.OutlineRaw() == "" {
		return nil, &course.MissingUpstreamError{Stage: course.GenerateStoryboard, Missing: "course outline"}
	}
	if e.course.StoryboardRaw() != "" && !e.cfg.AlwaysRegenerate {
		return e.course.Storyboard(), nil
	}

	event.Emit(e.events, event.Event{Type: event.StageStart, Stage: course.GenerateStoryboard})
	raw, err := e.generate(ctx, assistantSystemPrompt,
		storyboardPrompt(e.course.Summary(), e.course.OutlineRaw(), e.course.SourceContent()))
	if err != nil {
		return nil, &StageError{Stage: course.GenerateStoryboard, Op: "generate storyboard", Err: err}
	}

	table, parseErr := tabular.Parse(raw, tabular.Pipe, 3)
	if parseErr != nil {
		if err := e.course.SetStoryboard(nil, raw); err != nil {
			return nil, err
		}
		e.log.Warn("storyboard did not parse as a table", "error", parseErr)
		return nil, parseErr
	}

	rows := course.StoryboardFromTable(table)
	if err := e.course.SetStoryboard(rows, raw); err != nil {
		return nil, err
	}
	if table.Dropped > 0 {
		e.log.Warn("storyboard rows dropped", "count", table.Dropped)
		event.Emit(e.events, event.Event{Type: event.RowsDropped, Stage: course.GenerateStoryboard, Dropped: table.Dropped})
	}
	e.log.Debug("storyboard generated", "rows", len(rows))
	return rows, nil
}
