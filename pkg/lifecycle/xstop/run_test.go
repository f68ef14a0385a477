package xstop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

func TestRun_AllServicesGraceful(t *testing.T) {
	s := New()

	var ran int
	err := Run(context.Background(), s, xlog.Discard(),
		Func("a", func(xlog.Logger) error {
			ran++
			return nil
		}),
		Func("b", func(xlog.Logger) error {
			ran++
			return ErrStopping
		}),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, ran)
	// Run 返回前置位信号
	assert.True(t, s.IsSet())
}

func TestRun_ErrorPropagatesAndStopsSiblings(t *testing.T) {
	s := New()
	boom := errors.New("boom")

	err := Run(context.Background(), s, xlog.Discard(),
		Func("loop", func(xlog.Logger) error {
			// 长驻服务，靠兄弟服务的故障置位信号来退出
			return Interval(s, time.Millisecond, func() error { return nil })
		}),
		Func("failing", func(xlog.Logger) error {
			time.Sleep(5 * time.Millisecond)
			return boom
		}),
	)

	assert.ErrorIs(t, err, boom)
	assert.True(t, s.IsSet())
}

func TestRun_PanicBecomesError(t *testing.T) {
	s := New()

	err := Run(context.Background(), s, xlog.Discard(),
		Func("panicky", func(xlog.Logger) error {
			panic("kaboom")
		}),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRun_NoServices(t *testing.T) {
	s := New()

	require.NoError(t, Run(context.Background(), s, xlog.Discard()))
	assert.True(t, s.IsSet())
}

func TestRun_NilSignal(t *testing.T) {
	err := Run(context.Background(), nil, xlog.Discard(),
		Func("a", func(xlog.Logger) error { return nil }),
	)
	assert.ErrorIs(t, err, ErrNilSignal)
}

func TestFunc(t *testing.T) {
	svc := Func("named", func(xlog.Logger) error { return nil })
	assert.Equal(t, "named", svc.Name)
	assert.NotNil(t, svc.Run)
}
