package xpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
)

var errBoom = errors.New("boom")

func newStartedPool(t *testing.T, stop *xstop.Signal, opts ...Option) *Pool {
	t.Helper()
	p := New(stop, opts...)
	p.Start()
	t.Cleanup(p.Stop)
	return p
}

func TestPool_SubmitAndWait(t *testing.T) {
	p := newStartedPool(t, xstop.New())

	f := p.Submit(func() error { return nil })
	_, err := f.Wait()

	assert.NoError(t, err)
}

func TestPool_SubmitWithResult(t *testing.T) {
	p := newStartedPool(t, xstop.New())

	f := SubmitWithResult(p, func() (int, error) { return 42, nil })
	got, err := f.Wait()

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestPool_ErrorSetsSharedSignal(t *testing.T) {
	stop := xstop.New()
	p := newStartedPool(t, stop)

	f := p.Submit(func() error { return errBoom })
	_, err := f.Wait()

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, stop.IsSet())
}

func TestPool_StoppingErrorDoesNotMarkFailure(t *testing.T) {
	stop := xstop.New()
	p := newStartedPool(t, stop)

	f := p.Submit(func() error { return xstop.ErrStopping })
	_, err := f.Wait()

	// ErrStopping 原样传播，但这不算故障——信号不因此置位
	assert.ErrorIs(t, err, xstop.ErrStopping)
	assert.False(t, stop.IsSet())
}

func TestPool_SignalSetSkipsPendingTasks(t *testing.T) {
	stop := xstop.New()
	stop.Set()
	p := newStartedPool(t, stop)

	var ran atomic.Bool
	f := p.Submit(func() error {
		ran.Store(true)
		return nil
	})
	_, err := f.Wait()

	assert.ErrorIs(t, err, xstop.ErrStopping)
	assert.False(t, ran.Load())
}

func TestPool_ResultDiscardedWhenSignalSetDuringRun(t *testing.T) {
	stop := xstop.New()
	p := newStartedPool(t, stop)

	f := SubmitWithResult(p, func() (int, error) {
		stop.Set() // 模拟执行期间别处发起停止
		return 42, nil
	})
	got, err := f.Wait()

	assert.ErrorIs(t, err, xstop.ErrStopping)
	assert.Zero(t, got)
}

func TestPool_PanicBecomesErrorAndSetsSignal(t *testing.T) {
	stop := xstop.New()
	p := newStartedPool(t, stop)

	f := p.Submit(func() error { panic("kaboom") })
	_, err := f.Wait()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, stop.IsSet())
}

func TestPool_FailureContagion(t *testing.T) {
	stop := xstop.New()
	p := newStartedPool(t, stop, WithWorkers(1))

	first := p.Submit(func() error { return errBoom })
	second := p.Submit(func() error { return nil })

	_, err := first.Wait()
	assert.ErrorIs(t, err, errBoom)

	// 排在失败任务之后的任务被信号拦截
	_, err = second.Wait()
	assert.ErrorIs(t, err, xstop.ErrStopping)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := New(xstop.New())
	p.Start()
	p.Stop()

	f := p.Submit(func() error { return nil })
	_, err := f.Wait()

	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_StopDrainsQueue(t *testing.T) {
	p := New(xstop.New(), WithWorkers(2))
	p.Start()

	var done atomic.Int32
	futures := make([]*Future[struct{}], 0, 16)
	for range 16 {
		futures = append(futures, p.Submit(func() error {
			time.Sleep(time.Millisecond)
			done.Add(1)
			return nil
		}))
	}

	p.Stop()

	// Stop 返回即所有 Future 已解析
	for _, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatal("future unresolved after Stop")
		}
	}
	assert.Equal(t, int32(16), done.Load())
}

func TestPool_StopWithoutStartAbandonsQueue(t *testing.T) {
	p := New(xstop.New(), WithQueueSize(4))

	f := p.Submit(func() error { return nil })
	p.Stop()

	_, err := f.Wait()
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_BlockedSubmitUnblocksOnStop(t *testing.T) {
	p := New(xstop.New(), WithWorkers(1), WithQueueSize(1))
	// 不启动 worker：第 1 个任务占满队列，第 2 个提交将阻塞

	_ = p.Submit(func() error { return nil })

	var wg sync.WaitGroup
	var blocked *Future[struct{}]
	wg.Add(1)
	go func() {
		defer wg.Done()
		blocked = p.Submit(func() error { return nil })
	}()

	time.Sleep(10 * time.Millisecond)
	p.Stop()
	wg.Wait()

	_, err := blocked.Wait()
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_StartIsIdempotent(t *testing.T) {
	p := New(xstop.New(), WithWorkers(2))
	p.Start()
	p.Start()
	p.Start()
	defer p.Stop()

	f := p.Submit(func() error { return nil })
	_, err := f.Wait()
	assert.NoError(t, err)
}

func TestPool_StopIsIdempotent(t *testing.T) {
	p := New(xstop.New())
	p.Start()
	p.Stop()
	p.Stop()
}

func TestPool_NilFunc(t *testing.T) {
	p := newStartedPool(t, xstop.New())

	_, err := p.Submit(nil).Wait()
	assert.ErrorIs(t, err, ErrNilFunc)

	_, err = SubmitWithResult[int](p, nil).Wait()
	assert.ErrorIs(t, err, ErrNilFunc)
}

func TestPool_NilSignalGetsDetachedOne(t *testing.T) {
	p := New(nil)
	p.Start()
	defer p.Stop()

	require.NotNil(t, p.Signal())

	f := p.Submit(func() error { return errBoom })
	_, err := f.Wait()
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, p.Signal().IsSet())
}

func TestPool_Accessors(t *testing.T) {
	p := New(xstop.New(), WithWorkers(7), WithQueueSize(13))
	assert.Equal(t, 7, p.Workers())
	assert.Equal(t, 13, p.QueueSize())

	// 非法值回落默认
	d := New(xstop.New(), WithWorkers(0), WithQueueSize(-1))
	assert.Equal(t, defaultWorkers, d.Workers())
	assert.Equal(t, defaultQueueSize, d.QueueSize())
}

func TestPool_ConcurrentSubmitters(t *testing.T) {
	p := newStartedPool(t, xstop.New(), WithWorkers(8), WithQueueSize(8))

	var total atomic.Int64
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := SubmitWithResult(p, func() (int, error) { return i, nil })
			if v, err := f.Wait(); err == nil {
				total.Add(int64(v))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(4950), total.Load())
}
