package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/didactlabs/didact/course"
)

func TestEmit(t *testing.T) {
	t.Run("delivers with a timestamp", func(t *testing.T) {
		ch := make(chan Event, 1)
		Emit(ch, Event{Type: StageStart, Stage: course.GenerateOutline})

		e := <-ch
		assert.Equal(t, StageStart, e.Type)
		assert.Equal(t, course.GenerateOutline, e.Stage)
		assert.False(t, e.Timestamp.IsZero())
	})

	t.Run("nil channel is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Emit(nil, Event{Type: RunStart})
		})
	})

	t.Run("full channel drops instead of blocking", func(t *testing.T) {
		ch := make(chan Event, 1)
		Emit(ch, Event{Type: RunStart})
		Emit(ch, Event{Type: RunEnd})

		require.Len(t, ch, 1)
		assert.Equal(t, RunStart, (<-ch).Type)
	})
}

func TestNewChannel(t *testing.T) {
	ch := NewChannel()
	assert.Equal(t, 100, cap(ch))
}
