package views

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

func TestPreloader_RunIsolatesFailures(t *testing.T) {
	m := metrics.New()
	r, err := NewRegistry(Config{FS: testFS(), Views: []string{"home", "cargo", "broken", "ghost"}, Metrics: m})
	require.NoError(t, err)

	p := NewPreloader(PreloaderOptions{Registry: r, Concurrency: 2, Metrics: m})
	rep := p.Run(context.Background())

	require.Len(t, rep.Results, 4)
	failed := rep.Failed()
	require.Len(t, failed, 2)
	assert.ElementsMatch(t, []string{"broken", "ghost"}, []string{failed[0].View, failed[1].View})
	for _, f := range failed {
		assert.True(t, IsLoadError(f.Err))
	}

	assert.True(t, r.IsLoaded("home"))
	assert.True(t, r.IsLoaded("cargo"))
	assert.ElementsMatch(t, []string{"broken", "ghost"}, r.Pending())

	n, err := testutil.GatherAndCount(m.Gatherer(), "tramatch_view_preload_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPreloader_SkipsLoadedViews(t *testing.T) {
	r := newTestRegistry(t, testFS(), "home", "cargo")
	_, err := r.Load(context.Background(), "home")
	require.NoError(t, err)

	rep := NewPreloader(PreloaderOptions{Registry: r}).Run(context.Background())
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "cargo", rep.Results[0].View)
	assert.NoError(t, rep.Results[0].Err)
}

func TestPreloader_TriggerOnce(t *testing.T) {
	r := newTestRegistry(t, testFS(), "home", "cargo")
	p := NewPreloader(PreloaderOptions{Registry: r, Delay: 20 * time.Millisecond})

	_, ok := p.Report()
	assert.False(t, ok)

	start := time.Now()
	p.Trigger()
	p.Trigger()
	p.Trigger()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("preload did not finish")
	}
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	rep, ok := p.Report()
	require.True(t, ok)
	assert.Len(t, rep.Results, 2)
	assert.Empty(t, rep.Failed())
	assert.Empty(t, r.Pending())
}

func TestPreloader_CanceledDuringDelay(t *testing.T) {
	r := newTestRegistry(t, testFS(), "home")
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPreloader(PreloaderOptions{Registry: r, Delay: time.Hour, Context: ctx})

	p.Trigger()
	cancel()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("preload ignored cancellation")
	}
	_, ok := p.Report()
	assert.False(t, ok)
	assert.False(t, r.IsLoaded("home"))
}

func TestPreloader_NilTrigger(t *testing.T) {
	var p *Preloader
	assert.NotPanics(t, p.Trigger)
}
