package xmetrics

import (
	"context"
	"errors"
	"net"
)

// Transport 是指标批次的外部落点。
//
// name 是目标路径（如 "projects/<id>"），batch 中的快照已脱离
// 任何内部锁，可安全持有。实现应在 ctx 取消时尽快返回。
type Transport interface {
	CreateTimeSeries(ctx context.Context, name string, batch []*SeriesData) error
}

// TransportFunc 将函数适配为 Transport。
type TransportFunc func(ctx context.Context, name string, batch []*SeriesData) error

func (f TransportFunc) CreateTimeSeries(ctx context.Context, name string, batch []*SeriesData) error {
	return f(ctx, name, batch)
}

// TransientError 把一个错误标记为瞬态（值得重试）。
// Transport 实现用它区分限流、超时一类的暂时失败与配置错误
// 一类的永久失败。
type TransientError struct {
	Err error
}

// NewTransientError 包装 err 为瞬态错误。
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return "transient error"
	}
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient 实现瞬态标记接口。
func (e *TransientError) Transient() bool {
	return true
}

// transienter 是跨包识别瞬态错误的鸭子接口。
type transienter interface {
	Transient() bool
}

// IsTransient 判断 err 是否为瞬态传输错误（deadline/服务端过载一类）。
//
// 识别三类：显式的 Transient() 标记、context.DeadlineExceeded、
// 网络层超时（net.Error.Timeout）。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var t transienter
	if errors.As(err, &t) {
		return t.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
