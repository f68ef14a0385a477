package xconf_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/lifekit/pkg/config/xconf"
	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
)

// changeRecorder 并发安全地记录 onChange 调用。
type changeRecorder struct {
	mu     sync.Mutex
	values []int
	errs   []error
}

func (r *changeRecorder) onChange(cfg xconf.Config, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	r.values = append(r.values, cfg.Client().Int("value"))
}

func (r *changeRecorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *changeRecorder) last() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[len(r.values)-1], r.errs[len(r.errs)-1]
}

func startWatch(t *testing.T, s *xstop.Signal, cfg xconf.Config, rec *changeRecorder) <-chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- xconf.Watch(s, cfg, nil, rec.onChange, xconf.WithDebounce(20*time.Millisecond))
	}()
	t.Cleanup(func() {
		s.Set()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("watcher did not exit")
		}
	})
	return done
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "config.yaml", "value: 1\n")
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	s := xstop.New()
	rec := &changeRecorder{}
	startWatch(t, s, cfg, rec)

	// 给 watcher 一点时间建立目录监视
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("value: 2\n"), 0o600))

	require.Eventually(t, func() bool {
		return rec.calls() >= 1
	}, 5*time.Second, 10*time.Millisecond)

	value, cerr := rec.last()
	require.NoError(t, cerr)
	assert.Equal(t, 2, value)
	assert.Equal(t, 2, cfg.Client().Int("value"))
}

func TestWatch_ReportsReloadError(t *testing.T) {
	path := writeConfig(t, "config.yaml", "value: 1\n")
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	s := xstop.New()
	rec := &changeRecorder{}
	startWatch(t, s, cfg, rec)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("value: [broken"), 0o600))

	require.Eventually(t, func() bool {
		return rec.calls() >= 1
	}, 5*time.Second, 10*time.Millisecond)

	value, cerr := rec.last()
	assert.ErrorIs(t, cerr, xconf.ErrParseFailed)
	// 重载失败保留旧配置
	assert.Equal(t, 1, value)
}

func TestWatch_ExitsOnSignal(t *testing.T) {
	path := writeConfig(t, "config.yaml", "value: 1\n")
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	s := xstop.New()
	done := make(chan error, 1)
	go func() {
		done <- xconf.Watch(s, cfg, nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Set()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit on signal")
	}
}

func TestWatch_Validation(t *testing.T) {
	path := writeConfig(t, "config.yaml", "value: 1\n")
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	assert.ErrorIs(t, xconf.Watch(nil, cfg, nil, nil), xstop.ErrNilSignal)
	assert.ErrorIs(t, xconf.Watch(xstop.New(), nil, nil, nil), xconf.ErrNotWatchable)

	fromBytes, err := xconf.NewFromBytes([]byte("a: 1"), xconf.FormatYAML)
	require.NoError(t, err)
	assert.ErrorIs(t, xconf.Watch(xstop.New(), fromBytes, nil, nil), xconf.ErrNotWatchable)
}
