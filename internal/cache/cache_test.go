package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irmend/internal/ir"
)

func sampleBlock() ir.Block {
	return ir.Block{
		"type":       "widget",
		"widgetId":   "w1",
		"widgetKind": "chart.js/bar",
		"data": map[string]any{
			"labels":   []any{"A", "B"},
			"datasets": []any{map[string]any{"data": []any{1.0, 2.0}}},
		},
	}
}

func TestBuildKeyStable(t *testing.T) {
	a := ir.Block{"type": "widget", "widgetId": "w1", "extra": 1.0}
	b := ir.Block{"extra": 1.0, "widgetId": "w1", "type": "widget"}
	assert.Equal(t, BuildKey("w1", a), BuildKey("w1", b))
}

func TestBuildKeyDistinguishesContent(t *testing.T) {
	a := sampleBlock()
	b := sampleBlock()
	b["widgetKind"] = "chart.js/pie"
	assert.NotEqual(t, BuildKey("w1", a), BuildKey("w1", b))
	assert.NotEqual(t, BuildKey("w1", a), BuildKey("w2", a))
}

func TestPutGetDeepCopies(t *testing.T) {
	c := New(true)
	block := sampleBlock()
	c.Put("k", Entry{Block: block, Backend: 1, OK: true})

	block["type"] = "mutated"

	entry, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "widget", entry.Block["type"])
	assert.Equal(t, 1, entry.Backend)

	entry.Block["type"] = "mutated again"
	again, _ := c.Get("k")
	assert.Equal(t, "widget", again.Block["type"])
}

func TestDoMemoizes(t *testing.T) {
	c := New(true)
	calls := 0
	fn := func() Entry {
		calls++
		return Entry{Block: sampleBlock(), Backend: 0, OK: true}
	}

	first := c.Do("k", fn)
	second := c.Do("k", fn)

	assert.Equal(t, 1, calls)
	assert.True(t, first.OK)
	assert.True(t, second.OK)
	assert.Equal(t, 1, c.Len())
}

func TestDoCachesFailures(t *testing.T) {
	c := New(true)
	calls := 0
	fn := func() Entry {
		calls++
		return Entry{Backend: -1}
	}

	c.Do("k", fn)
	entry := c.Do("k", fn)

	assert.Equal(t, 1, calls)
	assert.False(t, entry.OK)
}

func TestDisabledCacheAlwaysCalls(t *testing.T) {
	c := New(false)
	calls := 0
	fn := func() Entry {
		calls++
		return Entry{Block: sampleBlock(), OK: true}
	}

	c.Do("k", fn)
	c.Do("k", fn)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDoConcurrentSharedKey(t *testing.T) {
	c := New(true)
	var mu sync.Mutex
	calls := 0
	fn := func() Entry {
		mu.Lock()
		calls++
		mu.Unlock()
		return Entry{Block: sampleBlock(), OK: true}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry := c.Do("k", fn)
			assert.True(t, entry.OK)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, 2)
	assert.GreaterOrEqual(t, calls, 1)
}
