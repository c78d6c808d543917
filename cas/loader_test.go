package cas

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/vm"
)

// countingLoader builds a one-instruction program per distinct source.
type countingLoader struct {
	calls int
	fail  bool
}

func (c *countingLoader) Load(name string, r io.Reader) (*vm.Program, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("Broken source")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &vm.Program{
		Name:     name,
		Code:     []vm.Instruction{vm.NewInstruction(vm.PUSHQ, vm.StrValue(string(data)))},
		Routines: map[string]int{},
	}, nil
}

func TestCachingLoader_ReusesIdenticalSource(t *testing.T) {
	inner := &countingLoader{}
	loader := NewCachingLoader(inner, NewMemoryStore(), 4)

	first, err := loader.Load("a", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("First load failed: %v", err)
	}
	second, err := loader.Load("b", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("Expected one parse, got %d", inner.calls)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Errorf("Cached program differs from the parsed one")
	}
	if second.Name != "a" {
		t.Errorf("Expected the cached program to keep its name, got %q", second.Name)
	}

	if _, err := loader.Load("c", strings.NewReader("other")); err != nil {
		t.Fatalf("Third load failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected a new parse for new source, got %d calls", inner.calls)
	}
	if stats := loader.Stats(); stats.Hits+stats.Misses == 0 {
		t.Errorf("Expected cache activity, got %+v", stats)
	}
}

func TestCachingLoader_PropagatesErrors(t *testing.T) {
	inner := &countingLoader{fail: true}
	loader := NewCachingLoader(inner, NewMemoryStore(), 4)
	for i := 0; i < 2; i++ {
		if _, err := loader.Load("bad", strings.NewReader("x")); err == nil {
			t.Fatalf("Expected an error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("Failed loads must not be cached, got %d calls", inner.calls)
	}
}
