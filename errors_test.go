package didact

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatewayError(t *testing.T) {
	t.Run("message includes cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewTransientError("request failed", 0, cause)
		assert.Equal(t, "request failed: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("message without cause", func(t *testing.T) {
		err := NewPermanentError("invalid API key", 401, nil)
		assert.Equal(t, "invalid API key", err.Error())
		assert.Equal(t, 401, err.StatusCode())
	})

	t.Run("categories and retryability", func(t *testing.T) {
		assert.True(t, NewTransientError("overloaded", 529, nil).Retryable())
		assert.False(t, NewPermanentError("forbidden", 403, nil).Retryable())
		assert.False(t, NewUserInputError("bad request", 400, nil).Retryable())
	})
}

func TestCategoryHelpers(t *testing.T) {
	transient := NewTransientError("rate limited", 429, nil)
	permanent := NewPermanentError("unauthorized", 401, nil)

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))
	assert.True(t, IsPermanent(permanent))
	assert.False(t, IsPermanent(errors.New("plain")))

	wrapped := fmt.Errorf("calling gateway: %w", transient)
	assert.True(t, IsTransient(wrapped))
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
	assert.Equal(t, 30*time.Second, RetryAfterOf(err))

	assert.Zero(t, RetryAfterOf(errors.New("plain")))
	assert.Zero(t, RetryAfterOf(NewTransientError("rate limited", 429, nil)))
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: RoleSystem, Content: "be helpful"}, NewSystemMessage("be helpful"))
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, NewUserMessage("hello"))
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hi"}, NewAssistantMessage("hi"))
}

func TestUsageAdd(t *testing.T) {
	u := Usage{InputTokens: 10, OutputTokens: 5}
	u.Add(Usage{InputTokens: 3, OutputTokens: 7})
	assert.Equal(t, Usage{InputTokens: 13, OutputTokens: 12}, u)
}
