package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)

	id := NewRunID(now)
	assert.Regexp(t, `^20260824-093000-[0-9a-f]{8}$`, id.String())

	other := NewRunID(now)
	assert.NotEqual(t, id, other, "two runs in the same second must stay distinct")
}

func TestItemOutcomeString(t *testing.T) {
	assert.Equal(t, "success", ResultSuccess.String())
	assert.Equal(t, "skip", ResultSkip.String())
	assert.Equal(t, "fail", ResultFail.String())
	assert.Equal(t, "unknown", ItemOutcome(99).String())
}

func TestExecStrategy(t *testing.T) {
	t.Run("sequential", func(t *testing.T) {
		s := Sequential(2 * time.Second)
		assert.Equal(t, 1, s.Workers)
		assert.Equal(t, 2*time.Second, s.Delay)
	})

	t.Run("bounded pool", func(t *testing.T) {
		s := BoundedPool(4)
		assert.Equal(t, 4, s.Workers)
		assert.Zero(t, s.Delay)
	})

	t.Run("pool floor", func(t *testing.T) {
		require.Equal(t, 1, BoundedPool(0).Workers)
		require.Equal(t, 1, BoundedPool(-3).Workers)
	})
}
