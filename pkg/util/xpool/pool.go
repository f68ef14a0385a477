package xpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

// Pool 是与停止信号联动的固定规模 worker pool。
//
// 每次提交返回一个 Future，任务结果经信号语义包装后写入其中：
//   - 执行前信号已置位：不运行任务，结果为 xstop.ErrStopping；
//   - 任务返回 xstop.ErrStopping：原样传播（优雅停止不是故障）；
//   - 任务返回其他错误或 panic：置位共享信号并记录日志，错误传播；
//   - 任务成功但执行期间信号被置位：丢弃结果，返回 xstop.ErrStopping
//     （停止后的结果不可信，消费方不应再依赖它做决策）。
//
// Start 幂等；Stop 拒绝新提交、等 worker 消化完队列后返回。
type Pool struct {
	stop *xstop.Signal
	opts options

	queue chan task

	mu       sync.Mutex
	started  bool
	stopping bool

	submitWG sync.WaitGroup // 在途的阻塞提交
	workerWG sync.WaitGroup

	stopOnce sync.Once
	stopped  chan struct{}
}

// task 携带入队任务的两个出口：被 worker 执行，或在池关闭时被放弃。
type task struct {
	run   func()
	abort func()
}

// New 创建 worker pool。
//
// stop 为 nil 时内部创建独立信号（任务错误只影响本池，不向外扩散）。
func New(stop *xstop.Signal, opts ...Option) *Pool {
	if stop == nil {
		stop = xstop.New()
	}
	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}
	return &Pool{
		stop:    stop,
		opts:    options,
		queue:   make(chan task, options.queueSize),
		stopped: make(chan struct{}),
	}
}

// Start 启动 worker。幂等：重复调用只会启动一次。
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopping {
		return
	}
	p.started = true

	for range p.opts.workers {
		p.workerWG.Add(1)
		go p.worker()
	}
}

// worker 消费队列直到关闭。不检查停止信号——信号语义在任务
// 包装层处理，worker 只负责把队列里的每个 Future 解析掉。
func (p *Pool) worker() {
	defer p.workerWG.Done()
	for t := range p.queue {
		t.run()
	}
}

// Stop 关闭 pool：拒绝新提交，等队列中剩余任务全部解析后返回。
// 幂等，可并发调用（后续调用等待第一次完成）。
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopping = true
		started := p.started
		p.mu.Unlock()

		// 唤醒阻塞在满队列上的提交方
		close(p.stopped)
		p.submitWG.Wait()

		close(p.queue)
		if started {
			p.workerWG.Wait()
			return
		}
		// 从未启动：队列里可能还躺着任务，就地放弃，保证 Future 解析
		for t := range p.queue {
			t.abort()
		}
	})
}

// Submit 提交无返回值的任务。
//
// 队列满时阻塞；池已关闭或在等待期间被关闭时，Future 以
// ErrPoolStopped 解析。返回的 Future 总会被解析，可安全 Wait。
func (p *Pool) Submit(fn func() error) *Future[struct{}] {
	if fn == nil {
		return SubmitWithResult[struct{}](p, nil)
	}
	return SubmitWithResult(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// SubmitWithResult 提交有返回值的任务。
//
// 泛型方法受限于 Go 规范，只能以包级函数提供。
func SubmitWithResult[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	var zero T

	if fn == nil {
		f.resolve(zero, ErrNilFunc)
		return f
	}

	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		f.resolve(zero, ErrPoolStopped)
		return f
	}
	// 在锁内登记在途提交：Stop 先看到 stopping=true 就看不到本次提交，
	// 先看到本次登记就会等它入队或放弃。两种交错都不会丢 Future。
	p.submitWG.Add(1)
	p.mu.Unlock()
	defer p.submitWG.Done()

	t := task{
		run:   func() { runTask(p, f, fn) },
		abort: func() { f.resolve(zero, ErrPoolStopped) },
	}

	select {
	case p.queue <- t:
	case <-p.stopped:
		f.resolve(zero, ErrPoolStopped)
	}
	return f
}

// runTask 按信号语义执行任务并解析 Future。
func runTask[T any](p *Pool, f *Future[T], fn func() (T, error)) {
	var zero T

	if p.stop.IsSet() {
		f.resolve(zero, xstop.ErrStopping)
		return
	}

	value, err := protectedCall(p.opts.logger, fn)
	if err != nil {
		if errors.Is(err, xstop.ErrStopping) {
			f.resolve(zero, err)
			return
		}
		// 非优雅错误是全局事件：置位信号，让共享同一信号的部件收尾
		p.stop.Set()
		p.opts.logger.Error(context.Background(), "pool.task.error",
			xlog.Component(p.opts.name), xlog.Err(err))
		f.resolve(zero, err)
		return
	}

	if p.stop.IsSet() {
		f.resolve(zero, xstop.ErrStopping)
		return
	}
	f.resolve(value, nil)
}

// protectedCall 执行 fn 并把 panic 恢复为错误。
func protectedCall[T any](log xlog.Logger, fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xpool: task panic: %v", r)
			log.Error(context.Background(), "pool.task.panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	return fn()
}

// Workers 返回 worker 数量。
func (p *Pool) Workers() int {
	return p.opts.workers
}

// QueueSize 返回队列容量。
func (p *Pool) QueueSize() int {
	return p.opts.queueSize
}

// Signal 返回 pool 绑定的停止信号。
func (p *Pool) Signal() *xstop.Signal {
	return p.stop
}
