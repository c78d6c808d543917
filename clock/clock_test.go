package clock

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lumen-dev/lumen/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPauseForHonoursContext(t *testing.T) {
	c := NewWallClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.PauseFor(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, c.PauseFor(context.Background(), 0))
}

func TestWaitUntilSleepsToNextMatch(t *testing.T) {
	c := NewWallClock()
	base := time.Date(2024, 1, 1, 10, 0, 59, 990_000_000, time.UTC)
	c.Now = func() time.Time { return base }
	tp, err := vm.ParseTimePattern("10:01")
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, c.WaitUntil(context.Background(), tp))
	assert.Less(t, time.Since(start), time.Second)
}

func TestReaderKeyboard(t *testing.T) {
	k := NewReaderKeyboard(strings.NewReader("qrest\n\n!"))
	r, err := k.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, 'q', r)
	r, err = k.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, '\n', r)
	r, err = k.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, '!', r)
	_, err = k.ReadKey()
	assert.ErrorIs(t, err, io.EOF)
}
