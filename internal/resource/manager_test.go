package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader records every load and release and tracks how many instances
// are alive at once.
type fakeLoader struct {
	mu      sync.Mutex
	events  []string
	live    atomic.Int32
	maxLive atomic.Int32
	fail    map[string]error
	block   chan struct{}
}

type fakeInstance struct {
	name   string
	loader *fakeLoader
}

func (i *fakeInstance) Release(context.Context) error {
	i.loader.record("release " + i.name)
	i.loader.live.Add(-1)
	return nil
}

func (i *fakeInstance) Generate(_ context.Context, prompt string, _ map[string]any) (string, int, error) {
	return i.name + ": " + prompt, 3, nil
}

func (l *fakeLoader) record(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *fakeLoader) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *fakeLoader) Load(_ context.Context, e Entry, s Strategy) (Instance, error) {
	if l.block != nil {
		<-l.block
	}
	if err := l.fail[e.Name]; err != nil {
		l.record("fail " + e.Name)
		return nil, err
	}
	l.record(fmt.Sprintf("load %s (%s)", e.Name, s))
	if n := l.live.Add(1); n > l.maxLive.Load() {
		l.maxLive.Store(n)
	}
	return &fakeInstance{name: e.Name, loader: l}, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) add(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, s)
}

func (o *recordingObserver) ResourceLoaded(name, strategy string, _ time.Duration) {
	o.add("loaded " + name + " " + strategy)
}
func (o *recordingObserver) ResourceUnloaded(name string)   { o.add("unloaded " + name) }
func (o *recordingObserver) ResourceCacheHit(name string)   { o.add("hit " + name) }
func (o *recordingObserver) ResourceLoadFailed(name string) { o.add("failed " + name) }

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(
		Entry{Name: "llama", Path: "meta-llama/Llama-3.2-3B-Instruct", SizeClass: "small"},
		Entry{Name: "qwen", Path: "Qwen/Qwen2.5-7B-Instruct", SizeClass: "large"},
		Entry{Name: "vision", Path: "Qwen/Qwen2-VL-2B-Instruct", Kind: KindVision},
	)
	require.NoError(t, err)
	return reg
}

func TestManager_LoadAndCacheHit(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	obs := &recordingObserver{}
	m := NewManager(testRegistry(t), loader, WithObserver(obs))

	assert.Equal(t, StatusUnloaded, m.Status())
	assert.Nil(t, m.Resident())

	h1, err := m.Load(ctx, "llama")
	require.NoError(t, err)
	h2, err := m.Load(ctx, "llama")
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, "llama", m.Resident().Name())
	assert.Equal(t, StatusLoaded, m.Status())
	assert.Equal(t, []string{"load llama (standard)"}, loader.Events())
	assert.Equal(t, Stats{Loads: 1, CacheHits: 1}, m.Stats())
	assert.Equal(t, []string{"loaded llama standard", "hit llama"}, obs.events)
}

func TestManager_SwitchUnloadsFirst(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	m := NewManager(testRegistry(t), loader)

	_, err := m.Load(ctx, "llama")
	require.NoError(t, err)
	h, err := m.Load(ctx, "qwen")
	require.NoError(t, err)

	assert.Equal(t, StrategyReduced, h.Strategy, "large entries load reduced by default")
	assert.Equal(t, []string{
		"load llama (standard)",
		"release llama",
		"load qwen (reduced)",
	}, loader.Events())
	assert.Equal(t, Stats{Loads: 2, Unloads: 1}, m.Stats())
}

func TestManager_UnknownNameLeavesResident(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	m := NewManager(testRegistry(t), loader)

	_, err := m.Load(ctx, "llama")
	require.NoError(t, err)

	_, err = m.Load(ctx, "gpt-5")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "gpt-5", nf.Name)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "llama", m.Resident().Name())
	assert.Equal(t, []string{"load llama (standard)"}, loader.Events())
}

func TestManager_LoadFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("out of memory")
	loader := &fakeLoader{fail: map[string]error{"qwen": cause}}
	obs := &recordingObserver{}
	m := NewManager(testRegistry(t), loader, WithObserver(obs))

	_, err := m.Load(ctx, "llama")
	require.NoError(t, err)

	h, err := m.Load(ctx, "qwen")
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, cause)

	var le *ResourceLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "qwen", le.Name)

	assert.Nil(t, m.Resident(), "no partial handle survives")
	assert.Equal(t, StatusUnloaded, m.Status())
	assert.Equal(t, 1, m.Stats().Failures)
	assert.Contains(t, obs.events, "failed qwen")

	// The slot is usable again.
	_, err = m.Load(ctx, "llama")
	require.NoError(t, err)
}

func TestManager_CustomStrategy(t *testing.T) {
	m := NewManager(testRegistry(t), &fakeLoader{}, WithStrategy(func(Entry) Strategy { return StrategyReduced }))
	h, err := m.Load(context.Background(), "llama")
	require.NoError(t, err)
	assert.Equal(t, StrategyReduced, h.Strategy)
}

func TestManager_UnloadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	m := NewManager(testRegistry(t), loader)

	require.NoError(t, m.Unload(ctx))
	_, err := m.Load(ctx, "llama")
	require.NoError(t, err)
	require.NoError(t, m.Close(ctx))
	require.NoError(t, m.Close(ctx))

	assert.Nil(t, m.Resident())
	assert.Equal(t, 1, m.Stats().Unloads)
	assert.Equal(t, int32(0), loader.live.Load())
}

func TestManager_ConcurrentLoadsKeepOneResident(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	m := NewManager(testRegistry(t), loader)
	names := []string{"llama", "qwen", "vision"}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Load(ctx, names[i%len(names)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.maxLive.Load(), "never more than one live instance")
	assert.Equal(t, int32(1), loader.live.Load())
	stats := m.Stats()
	assert.Equal(t, 60, stats.Loads+stats.CacheHits)
	assert.Equal(t, stats.Loads-1, stats.Unloads)
}

func TestManager_StatusObservableDuringLoad(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{block: make(chan struct{})}
	m := NewManager(testRegistry(t), loader)

	done := make(chan error)
	go func() {
		_, err := m.Load(ctx, "llama")
		done <- err
	}()

	require.Eventually(t, func() bool { return m.Status() == StatusLoading }, time.Second, time.Millisecond)
	assert.Nil(t, m.Resident())

	close(loader.block)
	require.NoError(t, <-done)
	assert.Equal(t, StatusLoaded, m.Status())
}

func TestHandle_Generate(t *testing.T) {
	ctx := context.Background()
	m := NewManager(testRegistry(t), &fakeLoader{})
	h, err := m.Load(ctx, "llama")
	require.NoError(t, err)

	text, units, err := h.Generate(ctx, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "llama: hi", text)
	assert.Equal(t, 3, units)

	plain := &Handle{Entry: Entry{Name: "x"}, Instance: releaseOnly{}}
	_, _, err = plain.Generate(ctx, "hi", nil)
	assert.ErrorContains(t, err, "cannot generate")
}

type releaseOnly struct{}

func (releaseOnly) Release(context.Context) error { return nil }

func TestBackends(t *testing.T) {
	ctx := context.Background()
	var used string
	b := Backends{}
	b.Register("", LoaderFunc(func(context.Context, Entry, Strategy) (Instance, error) {
		used = "default"
		return releaseOnly{}, nil
	}))
	b.Register("echo", LoaderFunc(func(context.Context, Entry, Strategy) (Instance, error) {
		used = "echo"
		return releaseOnly{}, nil
	}))

	_, err := b.Load(ctx, Entry{Name: "a"}, StrategyStandard)
	require.NoError(t, err)
	assert.Equal(t, "default", used)

	_, err = b.Load(ctx, Entry{Name: "a", Backend: "echo"}, StrategyStandard)
	require.NoError(t, err)
	assert.Equal(t, "echo", used)

	_, err = b.Load(ctx, Entry{Name: "a", Backend: "vllm"}, StrategyStandard)
	assert.ErrorContains(t, err, "vllm")

	assert.Panics(t, func() { b.Register("echo", nil) })
}

func TestSizeClassPolicy(t *testing.T) {
	policy := SizeClassPolicy("large", "xl")
	assert.Equal(t, StrategyReduced, policy(Entry{SizeClass: "xl"}))
	assert.Equal(t, StrategyStandard, policy(Entry{SizeClass: "small"}))
	assert.Equal(t, StrategyStandard, policy(Entry{}))
}
