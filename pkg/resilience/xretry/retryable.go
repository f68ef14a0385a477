package xretry

import (
	"context"
	"errors"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
)

// Retryable 是绑定了停止信号的重试执行器。
//
// 通过链式 setter 配置，配置完成后用 Do / DoWithData 执行。
// 底层使用 avast/retry-go/v5：
//   - 每次尝试前检查停止信号，已置位则返回 xstop.ErrStopping 且不再重试；
//   - 退避休眠同样可被停止信号打断（经由 Signal.Context 接入）；
//   - Classifier 判为不可重试的错误立即向上传播；
//   - 预算耗尽时返回最后一次的错误（不聚合错误列表）。
//
// Retryable 不是并发安全的构建器：配置阶段应在单个 goroutine 内完成，
// 之后的 Do 调用之间不共享可变状态，可并发执行。
type Retryable struct {
	stop        *xstop.Signal
	maxAttempts int
	backoff     BackoffPolicy
	jitter      bool
	classifier  Classifier
	onRetry     func(attempt int, err error)
}

// New 创建重试执行器。
//
// 默认配置：最多 3 次尝试（首次 + 2 次重试）、固定 100ms 退避、
// 开启均匀抖动、所有错误可重试。
// stop 可以为 nil，表示不关联停止信号。
func New(stop *xstop.Signal) *Retryable {
	return &Retryable{
		stop:        stop,
		maxAttempts: 3,
		backoff:     NewFixedBackoff(100 * time.Millisecond),
		jitter:      true,
		classifier:  AlwaysRetry(),
	}
}

// MaxAttempts 设置最大尝试次数（包含首次尝试）。
// 小于 1 的值按 1 处理（即不重试）。
func (r *Retryable) MaxAttempts(n int) *Retryable {
	r.maxAttempts = n
	return r
}

// Backoff 设置退避策略。nil 被静默忽略。
func (r *Retryable) Backoff(p BackoffPolicy) *Retryable {
	if p != nil {
		r.backoff = p
	}
	return r
}

// BackoffDuration 是 Backoff(NewFixedBackoff(d)) 的便捷写法。
func (r *Retryable) BackoffDuration(d time.Duration) *Retryable {
	return r.Backoff(NewFixedBackoff(d))
}

// Jitter 控制是否对退避时长做均匀抖动。
//
// 开启时实际休眠时长在 [0, delay] 内均匀分布，用于打散一批
// worker 同时失败后的重试风暴。
func (r *Retryable) Jitter(enabled bool) *Retryable {
	r.jitter = enabled
	return r
}

// Classifier 设置错误分类器。nil 被静默忽略。
func (r *Retryable) Classifier(c Classifier) *Retryable {
	if c != nil {
		r.classifier = c
	}
	return r
}

// OnRetry 设置每次重试前的回调。attempt 从 1 开始。
func (r *Retryable) OnRetry(fn func(attempt int, err error)) *Retryable {
	r.onRetry = fn
	return r
}

// Do 执行 fn，失败时按配置重试。
func (r *Retryable) Do(fn func() error) error {
	if r == nil {
		return ErrNilRetryable
	}
	if fn == nil {
		return ErrNilFunc
	}
	return retry.New(r.buildOptions()...).Do(r.guarded(fn))
}

// DoWithData 执行有返回值的 fn，失败时按配置重试。
//
// 泛型方法受限于 Go 规范，只能以包级函数提供。
func DoWithData[T any](r *Retryable, fn func() (T, error)) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilRetryable
	}
	if fn == nil {
		return zero, ErrNilFunc
	}
	return retry.NewWithData[T](r.buildOptions()...).Do(func() (T, error) {
		if err := r.stopErr(); err != nil {
			return zero, err
		}
		return fn()
	})
}

// guarded 在每次尝试前插入停止信号检查。
func (r *Retryable) guarded(fn func() error) func() error {
	return func() error {
		if err := r.stopErr(); err != nil {
			return err
		}
		return fn()
	}
}

func (r *Retryable) stopErr() error {
	if r.stop == nil {
		return nil
	}
	return r.stop.Err()
}

// buildOptions 把 Retryable 的配置翻译为 retry-go 的选项。
//
// 设计决策: 每次 Do 调用重建选项切片。预构建可省几次分配，
// 但重试场景对此完全不敏感，不值得为它引入共享状态。
func (r *Retryable) buildOptions() []retry.Option {
	opts := make([]retry.Option, 0, 5)

	// 停止信号经由 context 接入 retry-go，使退避休眠可被打断，
	// 且打断后返回的错误满足 errors.Is(err, xstop.ErrStopping)。
	ctx := context.Background()
	if r.stop != nil {
		ctx = r.stop.Context()
	}
	opts = append(opts, retry.Context(ctx))

	attempts := r.maxAttempts
	if attempts < 1 {
		// retry-go 的 Attempts(0) 表示无限重试，这里的语义是"不重试"
		attempts = 1
	}
	opts = append(opts, retry.Attempts(safeIntToUint(attempts)))

	opts = append(opts, retry.RetryIf(func(err error) bool {
		// 优雅停止不是故障，永不重试
		if errors.Is(err, xstop.ErrStopping) {
			return false
		}
		return r.classifier.Retryable(err)
	}))

	opts = append(opts, retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
		// retry-go v5 的 n 从 1 开始，与 BackoffPolicy.NextDelay 一致
		delay := r.backoff.NextDelay(safeUintToInt(n))
		if delay < 0 {
			delay = 0
		}
		if r.jitter && delay > 0 {
			delay = time.Duration(randomFloat64() * float64(delay))
		}
		return delay
	}))

	if r.onRetry != nil {
		onRetry := r.onRetry
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			// retry-go v5 在每次失败尝试后都触发回调，包括不会再重试的
			// 最后一次和被分类器拦下的错误；本包的契约是"每次重试前"，
			// 没有后续重试就不触发。n 从 0 开始，转换为 1-based。
			attempt := safeUintToInt(n) + 1
			if attempt >= attempts {
				return
			}
			if errors.Is(err, xstop.ErrStopping) || !r.classifier.Retryable(err) {
				return
			}
			onRetry(attempt, err)
		}))
	}

	opts = append(opts, retry.LastErrorOnly(true))
	return opts
}

// safeIntToUint 将 int 安全转换为 uint，负数归一化为 0。
func safeIntToUint(n int) uint {
	if n <= 0 {
		return 0
	}
	return uint(n)
}

// safeUintToInt 将 uint 安全转换为 int，超界截断到 MaxInt。
func safeUintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}
