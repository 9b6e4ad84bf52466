package course

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	c := NewContext()
	assert.Equal(t, GatherContext, c.Stage())
	assert.Zero(t, c.AnswerCount())
	assert.Empty(t, c.Summary())
}

func TestRecordAnswer(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		c := NewContext()
		require.NoError(t, c.RecordAnswer("What is the audience?", "New hires"))
		require.NoError(t, c.RecordAnswer("What is the duration?", "30 minutes"))

		answers := c.Answers()
		require.Len(t, answers, 2)
		assert.Equal(t, "What is the audience?", answers[0].Question)
		assert.Equal(t, "What is the duration?", answers[1].Question)
	})

	t.Run("overwrites repeated question in place", func(t *testing.T) {
		c := NewContext()
		require.NoError(t, c.RecordAnswer("Duration?", "30 minutes"))
		require.NoError(t, c.RecordAnswer("Audience?", "New hires"))
		require.NoError(t, c.RecordAnswer("Duration?", "45 minutes"))

		answers := c.Answers()
		require.Len(t, answers, 2)
		assert.Equal(t, "45 minutes", answers[0].Answer)
	})

	t.Run("fails outside context gathering", func(t *testing.T) {
		c := NewContext()
		c.SetStage(GenerateOutline)

		err := c.RecordAnswer("Duration?", "30 minutes")
		var wrongStage *WrongStageError
		require.True(t, errors.As(err, &wrongStage))
		assert.Equal(t, GenerateOutline, wrongStage.Current)
	})
}

func TestSetSummary(t *testing.T) {
	t.Run("requires answers", func(t *testing.T) {
		c := NewContext()
		err := c.SetSummary("Topic: Fire Safety")

		var missing *MissingUpstreamError
		require.True(t, errors.As(err, &missing))
		assert.Empty(t, c.Summary())
	})

	t.Run("caches the digest", func(t *testing.T) {
		c := NewContext()
		require.NoError(t, c.RecordAnswer("Topic?", "Fire Safety"))
		require.NoError(t, c.SetSummary("Topic: Fire Safety"))
		assert.Equal(t, "Topic: Fire Safety", c.Summary())
	})
}

func TestDerivedFieldGuards(t *testing.T) {
	t.Run("outline requires summary", func(t *testing.T) {
		c := NewContext()
		err := c.SetOutline([]OutlineRow{{Topic: "Intro", Duration: "10"}}, "raw")

		var missing *MissingUpstreamError
		require.True(t, errors.As(err, &missing))
		assert.Nil(t, c.Outline())
	})

	t.Run("storyboard requires outline", func(t *testing.T) {
		c := contextWithSummary(t)
		err := c.SetStoryboard(nil, "raw")

		var missing *MissingUpstreamError
		require.True(t, errors.As(err, &missing))
	})

	t.Run("assessment requires storyboard", func(t *testing.T) {
		c := contextWithOutline(t)
		err := c.SetAssessment("1. What is PPE?")

		var missing *MissingUpstreamError
		require.True(t, errors.As(err, &missing))
	})

	t.Run("full chain succeeds in order", func(t *testing.T) {
		c := contextWithOutline(t)
		require.NoError(t, c.SetStoryboard([]StoryboardRow{{OnscreenText: "Welcome"}}, "raw storyboard"))
		require.NoError(t, c.SetAssessment("1. What is PPE?"))
		assert.Equal(t, "1. What is PPE?", c.Assessment())
	})
}

func TestOutlineKeepsRawOnParseFailure(t *testing.T) {
	c := contextWithSummary(t)
	require.NoError(t, c.SetOutline(nil, "unparseable response text"))
	assert.Nil(t, c.Outline())
	assert.Equal(t, "unparseable response text", c.OutlineRaw())
}

func TestClearOutlineCascades(t *testing.T) {
	c := contextWithOutline(t)
	require.NoError(t, c.SetStoryboard([]StoryboardRow{{OnscreenText: "Welcome"}}, "raw"))
	require.NoError(t, c.SetAssessment("questions"))

	c.ClearOutline()
	assert.Nil(t, c.Outline())
	assert.Empty(t, c.OutlineRaw())
	assert.Nil(t, c.Storyboard())
	assert.Empty(t, c.StoryboardRaw())
	assert.Empty(t, c.Assessment())
	assert.NotEmpty(t, c.Summary(), "summary survives outline invalidation")
}

func TestReset(t *testing.T) {
	c := contextWithOutline(t)
	c.SetStage(GenerateStoryboard)
	c.AppendSourceContent("source text")

	c.Reset()
	assert.Equal(t, GatherContext, c.Stage())
	assert.Zero(t, c.AnswerCount())
	assert.Empty(t, c.Summary())
	assert.Empty(t, c.SourceContent())
	assert.Nil(t, c.Outline())
	assert.Empty(t, c.OutlineRaw())
}

func TestAppendSourceContent(t *testing.T) {
	c := NewContext()
	c.AppendSourceContent("first document")
	c.AppendSourceContent("")
	c.AppendSourceContent("generated filler")
	assert.Equal(t, "first document\n\ngenerated filler", c.SourceContent())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "gather_context", GatherContext.String())
	assert.Equal(t, "done", Done.String())
}

func TestStageNext(t *testing.T) {
	assert.Equal(t, AnalyzeContent, GatherContext.Next())
	assert.Equal(t, Done, CreateAssessment.Next())
	assert.Equal(t, Done, Done.Next())
	assert.True(t, Done.Terminal())
	assert.False(t, CreateAssessment.Terminal())
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("generate_outline")
	require.NoError(t, err)
	assert.Equal(t, GenerateOutline, s)

	_, err = ParseStage("unknown")
	assert.Error(t, err)
}

func contextWithSummary(t *testing.T) *Context {
	t.Helper()
	c := NewContext()
	require.NoError(t, c.RecordAnswer("Topic?", "Fire Safety"))
	require.NoError(t, c.SetSummary("Topic: Fire Safety; Duration: 30 minutes"))
	return c
}

func contextWithOutline(t *testing.T) *Context {
	t.Helper()
	c := contextWithSummary(t)
	require.NoError(t, c.SetOutline([]OutlineRow{{Topic: "Intro", Duration: "10"}}, "Intro | 10"))
	return c
}
