package xctx

import (
	"context"
	"time"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
	"github.com/omeyang/lifekit/pkg/observability/xlog"
	"github.com/omeyang/lifekit/pkg/observability/xmetrics"
	"github.com/omeyang/lifekit/pkg/resilience/xretry"
	"github.com/omeyang/lifekit/pkg/util/xpool"
)

// Context 把一个工作单元运行所需的全部环境捆绑为一个不可变快照：
// 停止信号、日志记录器、强类型配置、指标客户端。
//
// 它不是 context.Context 的替代品：需要标准 context 的地方用
// Stop().Context() 取停止感知版本。派生只发生在 Bind 和 Boundary：
// 换一个日志记录器，其余成员共享。
type Context[C any] struct {
	stop    *xstop.Signal
	log     xlog.Logger
	cfg     C
	metrics *xmetrics.Client
	parent  *Context[C]
	root    *Context[C]
}

// New 创建根上下文。parent 与 root 为 nil 表示自身即源头。
//
// stop 为 nil 时内部创建独立信号，log 为 nil 时使用丢弃记录器，
// metrics 可以为 nil（不产出指标的进程）。
func New[C any](stop *xstop.Signal, log xlog.Logger, cfg C, metrics *xmetrics.Client) *Context[C] {
	if stop == nil {
		stop = xstop.New()
	}
	if log == nil {
		log = xlog.Discard()
	}
	return &Context[C]{
		stop:    stop,
		log:     log,
		cfg:     cfg,
		metrics: metrics,
	}
}

// Bind 派生一个换绑了日志记录器的子上下文。
// log 为 nil 时沿用当前记录器。根指针始终指向真正的源头。
func (c *Context[C]) Bind(log xlog.Logger) *Context[C] {
	if log == nil {
		log = c.log
	}
	root := c.root
	if root == nil {
		root = c
	}
	return &Context[C]{
		stop:    c.stop,
		log:     log,
		cfg:     c.cfg,
		metrics: c.metrics,
		parent:  c,
		root:    root,
	}
}

// Stop 返回绑定的停止信号。
func (c *Context[C]) Stop() *xstop.Signal { return c.stop }

// Log 返回绑定的日志记录器。
func (c *Context[C]) Log() xlog.Logger { return c.log }

// Cfg 返回强类型配置。
func (c *Context[C]) Cfg() C { return c.cfg }

// Metrics 返回指标客户端，可能为 nil。
func (c *Context[C]) Metrics() *xmetrics.Client { return c.metrics }

// Parent 返回派生来源，根上下文返回 nil。
func (c *Context[C]) Parent() *Context[C] { return c.parent }

// Root 返回派生链的源头，根上下文返回自身。
func (c *Context[C]) Root() *Context[C] {
	if c.root == nil {
		return c
	}
	return c.root
}

// MaybeStop 在停止信号已置位时返回 xstop.ErrStopping，否则返回 nil。
// 长循环在迭代边界调用它实现协作式退出。
func (c *Context[C]) MaybeStop() error {
	return c.stop.Err()
}

// OrStop 合并业务错误与停机状态：err 非 nil 时优先返回 err
// （正在收尾的真实错误不能被优雅停机掩盖），否则等价于 MaybeStop。
func (c *Context[C]) OrStop(err error) error {
	if err != nil {
		return err
	}
	return c.stop.Err()
}

// Sleep 可被停止信号打断地睡眠。
func (c *Context[C]) Sleep(d time.Duration) error {
	return xstop.Sleep(c.stop, d)
}

// WaitEvent 等待事件通道关闭，受超时与停止信号约束。
// 返回值含义同 xstop.Wait。
func (c *Context[C]) WaitEvent(ev <-chan struct{}, timeout time.Duration) (bool, error) {
	return xstop.Wait(c.stop, ev, timeout)
}

// Interval 以固定节奏反复执行 fn，直到停止或 fn 出错。
func (c *Context[C]) Interval(period time.Duration, fn func() error) error {
	return xstop.Interval(c.stop, period, fn)
}

// Retry 返回绑定了停止信号的重试构建器。
func (c *Context[C]) Retry() *xretry.Retryable {
	return xretry.New(c.stop)
}

// Pool 创建绑定了停止信号与日志记录器的工作池。
// 显式传入的选项可以覆盖日志绑定。
func (c *Context[C]) Pool(opts ...xpool.Option) *xpool.Pool {
	merged := make([]xpool.Option, 0, len(opts)+1)
	merged = append(merged, xpool.WithLogger(c.log))
	merged = append(merged, opts...)
	return xpool.New(c.stop, merged...)
}

// Boundary 在命名错误边界内执行 fn。
//
// fn 收到的是绑定了边界日志记录器的子上下文；边界的信号语义
// （任何错误置位信号、panic 转换、ErrStopping 静默）见
// xstop.WithBoundary。
func (c *Context[C]) Boundary(name string, fn func(*Context[C]) error, opts ...xstop.BoundaryOption) error {
	return xstop.WithBoundary(context.Background(), name, c.stop, c.log,
		func(blog xlog.Logger) error {
			return fn(c.Bind(blog))
		}, opts...)
}
