package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/didactlabs/didact"
	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/tabular"
)

// mockGenerator scripts gateway responses by inspecting the prompt.
type mockGenerator struct {
	respond func(prompt string) (string, error)
	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	prompt := messages[len(messages)-1].Content
	m.calls++
	m.prompts = append(m.prompts, prompt)
	content, err := m.respond(prompt)
	if err != nil {
		return nil, err
	}
	return &ai.Response{Content: content}, nil
}

const testSummary = "Topic: Fire Safety\nDuration: 30 minutes\nGraded assessment: Yes"

// scriptedGatherer answers next-question prompts with numbered questions
// until the given answer count, then signals completion. Summary prompts
// get the fixed test summary.
func scriptedGatherer(completeAfter int) *mockGenerator {
	questions := 0
	return &mockGenerator{
		respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Summarize the following") {
				return testSummary, nil
			}
			questions++
			if questions >= completeAfter {
				return "Context gathering complete.", nil
			}
			return fmt.Sprintf("Question %d?", questions+1), nil
		},
	}
}

// gatherAll drives the gathering loop to completion with generic answers.
func gatherAll(t *testing.T, e *Engine) {
	t.Helper()
	for {
		q, done, err := e.NextQuestion(context.Background())
		require.NoError(t, err)
		if done {
			return
		}
		require.NoError(t, e.SubmitAnswer("answer to: "+q))
	}
}

// engineAtOutline returns an engine advanced to the outline stage.
func engineAtOutline(t *testing.T, gen *mockGenerator) *Engine {
	t.Helper()
	e := New(gen, DefaultConfig())
	gatherAll(t, e)
	_, err := e.Summarize(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Advance())
	require.NoError(t, e.SkipAnalysis())
	require.NoError(t, e.Advance())
	require.Equal(t, course.GenerateOutline, e.Stage())
	return e
}

func TestGatherContext(t *testing.T) {
	t.Run("opening question costs no gateway call", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := New(gen, DefaultConfig())

		q, done, err := e.NextQuestion(context.Background())
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, openingQuestion, q)
		assert.Zero(t, gen.calls)
	})

	t.Run("completes on gateway signal with summary generated exactly once", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := New(gen, DefaultConfig())

		gatherAll(t, e)
		assert.True(t, e.ContextComplete())
		assert.Equal(t, 7, e.Course().AnswerCount())

		_, err := e.Summarize(context.Background())
		require.NoError(t, err)
		_, err = e.Summarize(context.Background())
		require.NoError(t, err)

		summaryCalls := 0
		for _, p := range gen.prompts {
			if strings.Contains(p, "Summarize the following") {
				summaryCalls++
			}
		}
		assert.Equal(t, 1, summaryCalls)
		assert.Equal(t, testSummary, e.Course().Summary())
	})

	t.Run("completes when the question budget is exhausted", func(t *testing.T) {
		gen := scriptedGatherer(100)
		e := New(gen, DefaultConfig())

		gatherAll(t, e)
		assert.True(t, e.ContextComplete())
		assert.Equal(t, 9, e.Course().AnswerCount(), "7 core + 2 follow-ups")
	})

	t.Run("rejects empty answers", func(t *testing.T) {
		e := New(scriptedGatherer(7), DefaultConfig())
		_, _, err := e.NextQuestion(context.Background())
		require.NoError(t, err)
		assert.Error(t, e.SubmitAnswer("   "))
	})

	t.Run("summarize before completion fails", func(t *testing.T) {
		e := New(scriptedGatherer(7), DefaultConfig())
		_, err := e.Summarize(context.Background())
		assert.Error(t, err)
	})
}

func TestAdvanceGuards(t *testing.T) {
	t.Run("cannot leave gathering before summary", func(t *testing.T) {
		e := New(scriptedGatherer(7), DefaultConfig())
		assert.Error(t, e.Advance())

		gatherAll(t, e)
		assert.Error(t, e.Advance(), "complete but summary missing")

		_, err := e.Summarize(context.Background())
		require.NoError(t, err)
		assert.NoError(t, e.Advance())
		assert.Equal(t, course.AnalyzeContent, e.Stage())
	})

	t.Run("analysis blocks advancement until a decision when source exists", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := New(gen, DefaultConfig())
		gatherAll(t, e)
		_, err := e.Summarize(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Advance())

		e.Course().AppendSourceContent("uploaded document text")
		assert.Error(t, e.Advance())

		gen.respond = func(prompt string) (string, error) { return "Missing: evacuation routes", nil }
		_, err = e.AnalyzeGaps(context.Background())
		require.NoError(t, err)
		assert.Error(t, e.Advance(), "analysis done but decision pending")

		require.NoError(t, e.ChooseDecision(context.Background(), Proceed))
		assert.NoError(t, e.Advance())
		assert.Equal(t, course.GenerateOutline, e.Stage())
	})

	t.Run("outline and storyboard require a non-empty artifact", func(t *testing.T) {
		e := engineAtOutline(t, scriptedGatherer(7))
		assert.Error(t, e.Advance())
	})
}

func TestGenerateOutline(t *testing.T) {
	outlineTable := "Outline | Duration (in mins)\nIntroduction | 5\nHazards | 15\nReview | 10"

	t.Run("parses a two-column table", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := engineAtOutline(t, gen)
		gen.respond = func(prompt string) (string, error) { return outlineTable, nil }

		rows, err := e.GenerateOutline(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, course.OutlineRow{Topic: "Introduction", Duration: "5"}, rows[0])
		assert.NoError(t, e.Advance())
	})

	t.Run("parse failure keeps raw text and allows advancement", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := engineAtOutline(t, gen)
		gen.respond = func(prompt string) (string, error) {
			return "I could not produce a table, sorry.", nil
		}

		rows, err := e.GenerateOutline(context.Background())
		assert.Nil(t, rows)
		require.Error(t, err)
		assert.True(t, IsParseError(err))

		var parseErr *tabular.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "I could not produce a table, sorry.", parseErr.Raw)

		assert.Equal(t, course.GenerateOutline, e.Stage(), "parse failure never auto-advances")
		assert.Equal(t, "I could not produce a table, sorry.", e.Course().OutlineRaw())
		assert.NoError(t, e.Advance(), "raw artifact is non-empty")
	})

	t.Run("gateway failure leaves context untouched", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := engineAtOutline(t, gen)
		gen.respond = func(prompt string) (string, error) {
			return "", ai.NewTransientError("rate limited", 429, nil)
		}

		_, err := e.GenerateOutline(context.Background())
		require.Error(t, err)
		assert.Equal(t, course.GenerateOutline, e.Stage())
		assert.Empty(t, e.Course().OutlineRaw())
		assert.Error(t, e.Advance())
	})

	t.Run("cached outline skips the gateway", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := engineAtOutline(t, gen)
		gen.respond = func(prompt string) (string, error) { return outlineTable, nil }

		_, err := e.GenerateOutline(context.Background())
		require.NoError(t, err)
		before := gen.calls
		_, err = e.GenerateOutline(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before, gen.calls)

		require.NoError(t, e.Regenerate(course.GenerateOutline))
		_, err = e.GenerateOutline(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before+1, gen.calls)
	})
}

func TestGenerateStoryboard(t *testing.T) {
	outlineTable := "Outline | Duration (in mins)\nIntroduction | 5"
	storyboardTable := "Onscreen Text | Voice Over Script | Visualization Guidelines\n" +
		"Welcome to the course | Hello and welcome | Title slide\n" +
		"Knowledge check: what | is PPE | personal | protective equipment\n" +
		"Summary slide | Let us recap | Bullet list"

	t.Run("drops malformed rows and reports the count", func(t *testing.T) {
		gen := scriptedGatherer(7)
		e := engineAtOutline(t, gen)
		gen.respond = func(prompt string) (string, error) { return outlineTable, nil }
		_, err := e.GenerateOutline(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Advance())

		gen.respond = func(prompt string) (string, error) { return storyboardTable, nil }
		rows, err := e.GenerateStoryboard(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 2, "the four-field row is dropped, not repaired")
		assert.Equal(t, "Welcome to the course", rows[0].OnscreenText)
	})

	t.Run("requires the outline", func(t *testing.T) {
		e := New(scriptedGatherer(7), DefaultConfig())
		e.Course().SetStage(course.GenerateStoryboard)

		_, err := e.GenerateStoryboard(context.Background())
		var missing *course.MissingUpstreamError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, course.GenerateStoryboard, missing.Stage)
	})
}

func TestCreateAssessment(t *testing.T) {
	run := func(t *testing.T, summary string) (*Engine, *mockGenerator) {
		t.Helper()
		gen := &mockGenerator{
			respond: func(prompt string) (string, error) {
				switch {
				case strings.Contains(prompt, "Summarize the following"):
					return summary, nil
				case strings.Contains(prompt, "Create a storyboard"):
					return "Onscreen Text | Voice Over Script | Visualization Guidelines\nA | B | C", nil
				case strings.Contains(prompt, "content outline"):
					return "Outline | Duration (in mins)\nIntro | 10", nil
				default:
					return "Context gathering complete.", nil
				}
			},
		}
		e := New(gen, DefaultConfig())
		gatherAll(t, e)
		_, err := e.Summarize(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Advance())
		require.NoError(t, e.SkipAnalysis())
		require.NoError(t, e.Advance())
		_, err = e.GenerateOutline(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Advance())
		_, err = e.GenerateStoryboard(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Advance())
		require.Equal(t, course.CreateAssessment, e.Stage())
		return e, gen
	}

	t.Run("skips without a gateway call when not requested", func(t *testing.T) {
		e, gen := run(t, "Topic: Fire Safety\nDuration: 30 minutes")
		before := gen.calls

		text, err := e.CreateAssessment(context.Background())
		require.NoError(t, err)
		assert.Empty(t, text)
		assert.Equal(t, before, gen.calls, "no gateway call on skip")
		assert.Equal(t, course.Done, e.Stage())
	})

	t.Run("uses the explicit question count", func(t *testing.T) {
		e, gen := run(t, "Graded assessment: Yes, 10 questions\nDuration: 30 minutes")
		gen.respond = func(prompt string) (string, error) {
			assert.Contains(t, prompt, "Create 10 multiple-choice questions")
			return "1. What is PPE?", nil
		}

		text, err := e.CreateAssessment(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1. What is PPE?", text)
		require.NoError(t, e.Advance())
		assert.Equal(t, course.Done, e.Stage())
	})

	t.Run("estimates the count from duration", func(t *testing.T) {
		e, gen := run(t, "Graded assessment: Yes\nDuration: 30 minutes")
		gen.respond = func(prompt string) (string, error) {
			assert.Contains(t, prompt, "Create 3 multiple-choice questions")
			return "questions", nil
		}
		_, err := e.CreateAssessment(context.Background())
		require.NoError(t, err)
	})

	t.Run("falls back to the default count", func(t *testing.T) {
		e, gen := run(t, "Graded assessment: Yes")
		gen.respond = func(prompt string) (string, error) {
			assert.Contains(t, prompt, "Create 5 multiple-choice questions")
			return "questions", nil
		}
		_, err := e.CreateAssessment(context.Background())
		require.NoError(t, err)
	})

	t.Run("explicit opt-out finishes the session", func(t *testing.T) {
		e, _ := run(t, testSummary)
		require.NoError(t, e.SkipAssessment())
		assert.Equal(t, course.Done, e.Stage())
	})
}

func TestModify(t *testing.T) {
	gen := scriptedGatherer(7)
	e := engineAtOutline(t, gen)
	gen.respond = func(prompt string) (string, error) {
		return "Outline | Duration (in mins)\nIntro | 10", nil
	}
	_, err := e.GenerateOutline(context.Background())
	require.NoError(t, err)

	e.Modify()
	assert.Equal(t, course.GatherContext, e.Stage())
	assert.False(t, e.ContextComplete())
	assert.Zero(t, e.Course().AnswerCount())
	assert.Empty(t, e.Course().Summary())
	assert.Empty(t, e.Course().OutlineRaw())

	// The session restarts cleanly from the opening question.
	q, done, err := e.NextQuestion(context.Background())
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, openingQuestion, q)
}

func TestStagesOnlyMoveForward(t *testing.T) {
	gen := scriptedGatherer(7)
	e := New(gen, DefaultConfig())

	seen := []course.Stage{e.Stage()}
	gatherAll(t, e)
	_, err := e.Summarize(context.Background())
	require.NoError(t, err)

	for e.Stage() != course.Done {
		prev := e.Stage()
		switch e.Stage() {
		case course.GatherContext:
			require.NoError(t, e.Advance())
		case course.AnalyzeContent:
			require.NoError(t, e.SkipAnalysis())
			require.NoError(t, e.Advance())
		case course.GenerateOutline:
			gen.respond = func(string) (string, error) {
				return "Outline | Duration (in mins)\nIntro | 10", nil
			}
			_, err := e.GenerateOutline(context.Background())
			require.NoError(t, err)
			require.NoError(t, e.Advance())
		case course.GenerateStoryboard:
			gen.respond = func(string) (string, error) {
				return "Onscreen Text | Voice Over Script | Visualization Guidelines\nA | B | C", nil
			}
			_, err := e.GenerateStoryboard(context.Background())
			require.NoError(t, err)
			require.NoError(t, e.Advance())
		case course.CreateAssessment:
			_, err := e.CreateAssessment(context.Background())
			require.NoError(t, err)
			if e.Stage() != course.Done {
				require.NoError(t, e.Advance())
			}
		}
		require.Greater(t, e.Stage(), prev, "stages only advance")
		seen = append(seen, e.Stage())
	}
	assert.Equal(t, course.Done, seen[len(seen)-1])
}

func TestChooseDecisionGenerateFiller(t *testing.T) {
	gen := scriptedGatherer(7)
	e := New(gen, DefaultConfig())
	gatherAll(t, e)
	_, err := e.Summarize(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Advance())
	e.Course().AppendSourceContent("partial source material")

	gen.respond = func(prompt string) (string, error) {
		if strings.Contains(prompt, "identify content gaps") {
			return "Missing: evacuation routes", nil
		}
		return "Generated coverage of evacuation routes.", nil
	}
	_, err = e.AnalyzeGaps(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.ChooseDecision(context.Background(), GenerateFiller))
	assert.Contains(t, e.Course().SourceContent(), "partial source material")
	assert.Contains(t, e.Course().SourceContent(), "Generated coverage of evacuation routes.")
	assert.NoError(t, e.Advance())
}

func TestChooseDecisionMoreSources(t *testing.T) {
	gen := scriptedGatherer(7)
	e := New(gen, DefaultConfig())
	gatherAll(t, e)
	_, err := e.Summarize(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Advance())
	e.Course().AppendSourceContent("first document")

	gen.respond = func(prompt string) (string, error) { return "Missing: several topics", nil }
	_, err = e.AnalyzeGaps(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.ChooseDecision(context.Background(), MoreSources))
	assert.Error(t, e.Advance(), "stage stays open for more documents")
	assert.Empty(t, e.Analysis(), "analysis invalidated for re-comparison")

	e.Course().AppendSourceContent("second document")
	_, err = e.AnalyzeGaps(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.ChooseDecision(context.Background(), Proceed))
	assert.NoError(t, e.Advance())
}
