package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Settings{Name: "test", MaxFailures: 2, OpenTimeout: time.Minute}, nil)
	boom := errors.New("boom")
	calls := 0
	failing := func() error {
		calls++
		return boom
	}

	assert.ErrorIs(t, b.Do(failing), boom)
	assert.ErrorIs(t, b.Do(failing), boom)
	assert.Equal(t, "open", b.State())

	err := b.Do(failing)
	assert.True(t, IsOpen(err))
	assert.Equal(t, 2, calls, "open breaker must not call through")
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := New(Settings{Name: "test", MaxFailures: 2, OpenTimeout: time.Minute}, nil)
	boom := errors.New("boom")

	_ = b.Do(func() error { return boom })
	assert.NoError(t, b.Do(func() error { return nil }))
	_ = b.Do(func() error { return boom })

	assert.Equal(t, "closed", b.State())
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b := New(Settings{Name: "test", MaxFailures: 1, OpenTimeout: 10 * time.Millisecond}, nil)
	_ = b.Do(func() error { return errors.New("boom") })
	assert.Equal(t, "open", b.State())

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}
