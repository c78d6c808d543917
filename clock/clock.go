// Package clock provides the timing and keyboard collaborators used by
// WAIT and PAUSE.
package clock

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
)

type Clock interface {
	Start()
	Stop()
	PauseFor(ctx context.Context, d time.Duration) error
	WaitUntil(ctx context.Context, pattern vm.TimePattern) error
}

type Keyboard interface {
	ReadKey() (rune, error)
}

// WallClock sleeps on real time. Now may be replaced to shift the wall
// clock used for time patterns.
type WallClock struct {
	Now func() time.Time

	mu      sync.Mutex
	started time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{Now: time.Now}
}

func (c *WallClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = c.Now()
}

func (c *WallClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started.IsZero() {
		log.Debug().Dur("elapsed", c.Now().Sub(c.started)).Msg("clock stopped")
	}
	c.started = time.Time{}
}

func (c *WallClock) PauseFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *WallClock) WaitUntil(ctx context.Context, pattern vm.TimePattern) error {
	now := c.Now()
	next, ok := pattern.Next(now)
	if !ok {
		return fmt.Errorf("Time pattern %s never matches", pattern)
	}
	log.Debug().Stringer("pattern", pattern).Time("until", next).Msg("waiting for time pattern")
	return c.PauseFor(ctx, next.Sub(now))
}

// ReaderKeyboard reads keys from a line-buffered stream such as stdin;
// the rest of each line is discarded.
type ReaderKeyboard struct {
	r *bufio.Reader
}

func NewReaderKeyboard(r io.Reader) *ReaderKeyboard {
	return &ReaderKeyboard{r: bufio.NewReader(r)}
}

func (k *ReaderKeyboard) ReadKey() (rune, error) {
	line, err := k.r.ReadString('\n')
	if err != nil && line == "" {
		return 0, err
	}
	r, _ := utf8.DecodeRuneInString(line)
	return r, nil
}
