package xctx_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/lifekit/pkg/context/xctx"
	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
	"github.com/omeyang/lifekit/pkg/observability/xlog"
	"github.com/omeyang/lifekit/pkg/observability/xmetrics"
	"github.com/omeyang/lifekit/pkg/util/xpool"
)

type syncCfg struct {
	Source string
	Limit  int
}

func newCaptureLogger(t *testing.T) (xlog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelDebug).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	return logger, &buf
}

func TestNew_Accessors(t *testing.T) {
	stop := xstop.New()
	log, _ := newCaptureLogger(t)
	metrics := xmetrics.NewClient(stop, nil)
	cfg := syncCfg{Source: "orders", Limit: 100}

	ctx := xctx.New(stop, log, cfg, metrics)

	assert.Same(t, stop, ctx.Stop())
	assert.Equal(t, log, ctx.Log())
	assert.Equal(t, cfg, ctx.Cfg())
	assert.Same(t, metrics, ctx.Metrics())
	assert.Nil(t, ctx.Parent())
	assert.Same(t, ctx, ctx.Root())
}

func TestNew_NilDefaults(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	assert.NotNil(t, ctx.Stop())
	assert.NotNil(t, ctx.Log())
	assert.Nil(t, ctx.Metrics())
	assert.NoError(t, ctx.MaybeStop())
}

func TestBind_SharesEverythingButLogger(t *testing.T) {
	stop := xstop.New()
	log, _ := newCaptureLogger(t)
	root := xctx.New(stop, log, syncCfg{Source: "orders"}, nil)

	other, _ := newCaptureLogger(t)
	child := root.Bind(other)

	assert.Same(t, stop, child.Stop())
	assert.Equal(t, other, child.Log())
	assert.Equal(t, root.Cfg(), child.Cfg())
	assert.Same(t, root, child.Parent())
	assert.Same(t, root, child.Root())
}

func TestBind_NilLoggerReusesCurrent(t *testing.T) {
	log, _ := newCaptureLogger(t)
	root := xctx.New(xstop.New(), log, syncCfg{}, nil)

	child := root.Bind(nil)
	assert.Equal(t, log, child.Log())
}

func TestBind_RootStaysOrigin(t *testing.T) {
	root := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)
	grandchild := root.Bind(nil).Bind(nil)

	assert.Same(t, root, grandchild.Root())
	assert.Same(t, root, grandchild.Parent().Root())
}

func TestMaybeStop(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	assert.NoError(t, ctx.MaybeStop())

	ctx.Stop().Set()
	assert.ErrorIs(t, ctx.MaybeStop(), xstop.ErrStopping)
}

func TestOrStop(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)
	boom := errors.New("boom")

	assert.NoError(t, ctx.OrStop(nil))
	assert.ErrorIs(t, ctx.OrStop(boom), boom)

	ctx.Stop().Set()
	assert.ErrorIs(t, ctx.OrStop(nil), xstop.ErrStopping)
	// 真实错误优先于停机状态
	assert.ErrorIs(t, ctx.OrStop(boom), boom)
	assert.NotErrorIs(t, ctx.OrStop(boom), xstop.ErrStopping)
}

func TestSleep_InterruptedByStop(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	go func() {
		time.Sleep(10 * time.Millisecond)
		ctx.Stop().Set()
	}()

	start := time.Now()
	err := ctx.Sleep(5 * time.Second)
	assert.ErrorIs(t, err, xstop.ErrStopping)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitEvent(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	ev := make(chan struct{})
	close(ev)

	ok, err := ctx.WaitEvent(ev, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctx.WaitEvent(make(chan struct{}), 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInterval_StopsOnSignal(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	var calls int
	err := ctx.Interval(time.Millisecond, func() error {
		calls++
		if calls == 3 {
			ctx.Stop().Set()
		}
		return nil
	})

	assert.ErrorIs(t, err, xstop.ErrStopping)
	assert.Equal(t, 3, calls)
}

func TestRetry_BoundToSignal(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)
	ctx.Stop().Set()

	err := ctx.Retry().Do(func() error { return errors.New("boom") })
	assert.ErrorIs(t, err, xstop.ErrStopping)
}

func TestPool_BoundToSignalAndLogger(t *testing.T) {
	ctx := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	pool := ctx.Pool(xpool.WithWorkers(1))
	pool.Start()
	defer pool.Stop()

	assert.Same(t, ctx.Stop(), pool.Signal())

	f := pool.Submit(func() error { return nil })
	_, err := f.Wait()
	require.NoError(t, err)
}

func TestBoundary_BodyGetsChildContext(t *testing.T) {
	log, buf := newCaptureLogger(t)
	root := xctx.New(xstop.New(), log, syncCfg{Source: "orders"}, nil)

	var inner *xctx.Context[syncCfg]
	err := root.Boundary("sync.orders", func(bctx *xctx.Context[syncCfg]) error {
		inner = bctx
		bctx.Log().Info(context.Background(), "pass done")
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, inner)
	assert.Same(t, root, inner.Parent())
	assert.Same(t, root, inner.Root())
	assert.Equal(t, "orders", inner.Cfg().Source)
	assert.Contains(t, buf.String(), "sync.orders")
	assert.Contains(t, buf.String(), "pass done")
}

func TestBoundary_ErrorSetsSignal(t *testing.T) {
	root := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)
	boom := errors.New("boom")

	err := root.Boundary("sync.orders", func(*xctx.Context[syncCfg]) error {
		return boom
	}, xstop.Reraise())

	assert.ErrorIs(t, err, boom)
	assert.True(t, root.Stop().IsSet())

	// 默认吞掉错误，只置位信号
	swallowed := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)
	assert.NoError(t, swallowed.Boundary("sync.orders", func(*xctx.Context[syncCfg]) error {
		return boom
	}))
	assert.True(t, swallowed.Stop().IsSet())
}

func TestBoundary_StoppingIsGraceful(t *testing.T) {
	root := xctx.New[syncCfg](nil, nil, syncCfg{}, nil)

	err := root.Boundary("sync.orders", func(bctx *xctx.Context[syncCfg]) error {
		bctx.Stop().Set()
		return bctx.MaybeStop()
	}, xstop.Reraise())

	assert.ErrorIs(t, err, xstop.ErrStopping)
}
