package xstop

import (
	"context"
	"sync"
	"time"
)

// Signal 是单向的一次性停止标志。
//
// 置位后不可复位；Set 可安全地从多个 goroutine 并发调用，后续调用为空操作。
// 所有消费方通过 Done 通道或 IsSet 观察同一次置位。
//
// 必须通过 New 创建，零值不可用。
type Signal struct {
	once sync.Once
	done chan struct{}
}

// New 创建未置位的停止信号。
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set 置位停止信号。幂等，可并发调用。
func (s *Signal) Set() {
	s.once.Do(func() {
		close(s.done)
	})
}

// IsSet 返回信号是否已置位。非阻塞。
func (s *Signal) IsSet() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done 返回在信号置位时关闭的通道，用于 select。
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Err 在信号已置位时返回 ErrStopping，否则返回 nil。
func (s *Signal) Err() error {
	if s.IsSet() {
		return ErrStopping
	}
	return nil
}

// Context 返回一个与信号绑定的 context。
//
// 返回的 context 没有截止时间和值；其 Done 通道就是信号的通道，
// Err 在信号置位后返回 ErrStopping（而非 context.Canceled）。
// 用于把停止信号接入以 context 为取消手段的代码（驱动、重试库等），
// 同时让调用方拿到的错误仍可被 errors.Is(err, ErrStopping) 识别。
func (s *Signal) Context() context.Context {
	return stopContext{s: s}
}

// stopContext 将 Signal 适配为 context.Context。
//
// 设计决策: 不基于 context.WithCancel 派生，而是直接复用信号的通道。
// 这样无需在信号和 context 之间架设转发 goroutine，也不存在
// cancel 函数泄漏问题；Err 的返回值是 ErrStopping 而非 context.Canceled，
// 满足 "Done 关闭 ⇔ Err 非 nil" 的 context 契约。
type stopContext struct {
	s *Signal
}

func (stopContext) Deadline() (deadline time.Time, ok bool) { return }

func (c stopContext) Done() <-chan struct{} { return c.s.done }

func (c stopContext) Err() error { return c.s.Err() }

func (stopContext) Value(key any) any { return nil }
