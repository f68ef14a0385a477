package xstop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

// BoundaryOption 配置 WithBoundary 的行为。
type BoundaryOption func(*boundaryOptions)

type boundaryOptions struct {
	reraise bool
}

// Reraise 让 WithBoundary 把 fn 的错误（包括 ErrStopping）向上传播。
//
// 默认行为是吞掉错误只做记录和置位，适合 goroutine 顶层；
// 需要由调用方决定后续动作时（如 errgroup 收集）使用本选项。
func Reraise() BoundaryOption {
	return func(o *boundaryOptions) {
		o.reraise = true
	}
}

// WithBoundary 在受保护的边界内运行 fn。
//
// 边界做四件事：
//  1. 进入和离开时各记录一条日志（离开日志无条件记录，带耗时）；
//  2. fn 收到一个绑定了边界名称的 logger；
//  3. fn 返回错误或 panic 时置位停止信号，让其余部件协调收尾；
//  4. ErrStopping 视为优雅停止，不按错误级别记录。
//
// panic 会被恢复并转换为错误参与上述流程。默认吞掉全部错误；
// 传入 Reraise 后原样返回 fn 的错误。
func WithBoundary(ctx context.Context, name string, s *Signal, log xlog.Logger, fn func(log xlog.Logger) error, opts ...BoundaryOption) error {
	options := &boundaryOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(options)
	}

	if log == nil {
		log = xlog.Discard()
	}
	blog := log.With(xlog.Boundary(name))

	var err error
	switch {
	case s == nil:
		err = ErrNilSignal
	case fn == nil:
		err = ErrNilFunc
	default:
		blog.Debug(ctx, "boundary.start")
		start := time.Now()
		err = runProtected(name, blog, fn)
		blog.Debug(ctx, "boundary.stop", xlog.Duration(time.Since(start)))
	}

	if err != nil {
		if s != nil {
			s.Set()
		}
		if errors.Is(err, ErrStopping) {
			blog.Debug(ctx, "boundary.stopping")
		} else {
			blog.Error(ctx, "boundary.error", xlog.Err(err))
		}
	}

	if options.reraise {
		return err
	}
	return nil
}

// runProtected 执行 fn 并把 panic 恢复为错误。
func runProtected(name string, log xlog.Logger, fn func(log xlog.Logger) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xstop: panic in boundary %q: %v", name, r)
			log.Error(context.Background(), "boundary.panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	return fn(log)
}
