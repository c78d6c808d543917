package vm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimePattern(t *testing.T) {
	tp, err := ParseTimePattern("7:30|1*:00")
	require.NoError(t, err)
	assert.Equal(t, "07:30|1*:00", tp.String())

	for _, bad := range []string{"", "7", "24:00", "12:60", "3*:00", "12-30"} {
		_, err := ParseTimePattern(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimePatternMatch(t *testing.T) {
	tp, err := ParseTimePattern("1*:*5")
	require.NoError(t, err)
	assert.True(t, tp.Match(10, 5))
	assert.True(t, tp.Match(19, 55))
	assert.False(t, tp.Match(9, 5))
	assert.False(t, tp.Match(12, 30))
}

func TestTimePatternUnion(t *testing.T) {
	a, err := ParseTimePattern("08:00")
	require.NoError(t, err)
	b, err := ParseTimePattern("20:00|08:00")
	require.NoError(t, err)
	u := a.Union(b)
	assert.Equal(t, "08:00|20:00", u.String())
	assert.True(t, u.Match(20, 0))
	assert.True(t, u.Match(8, 0))
}

func TestTimePatternNext(t *testing.T) {
	tp, err := ParseTimePattern("**:*0")
	require.NoError(t, err)
	from := time.Date(2024, 3, 1, 23, 55, 12, 0, time.UTC)
	next, ok := tp.Next(from)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), next)

	exact := time.Date(2024, 3, 1, 10, 10, 0, 0, time.UTC)
	next, ok = tp.Next(exact)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC), next)
}
