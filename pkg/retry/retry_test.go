package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	wantErr := errors.New("still down")
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 4, calls) // initial attempt plus MaxRetries
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), func() error {
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoIfRetryable_PermanentErrorStops(t *testing.T) {
	calls := 0
	wantErr := errors.New("syntax error at or near SELECT")
	err := DoIfRetryable(context.Background(), fastConfig(), func() error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestDoIfRetryable_TransientErrorRetries(t *testing.T) {
	calls := 0
	err := DoIfRetryable(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 2 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

type markedErr struct{ retryable bool }

func (e markedErr) Error() string     { return "marked" }
func (e markedErr) IsRetryable() bool { return e.retryable }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), true},
		{"deadlock", errors.New("ERROR: deadlock detected"), true},
		{"serialization failure", errors.New("ERROR: could not serialize access: serialization failure"), true},
		{"bad sql", errors.New("ERROR: syntax error"), false},
		{"marked retryable", markedErr{retryable: true}, true},
		{"marked permanent", markedErr{retryable: false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
