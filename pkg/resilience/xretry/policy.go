package xretry

import "time"

// Classifier 判断一个错误是否值得重试。
//
// 通过 Retryable 使用时，Classifier 在每次失败后被调用；
// 返回 false 的错误立即向上传播，不消耗重试预算。
// 停止哨兵（xstop.ErrStopping）在 Classifier 之前被短路拦截，永不重试。
type Classifier interface {
	// Retryable 返回 err 是否可重试。err 保证非 nil。
	Retryable(err error) bool
}

// ClassifierFunc 将函数适配为 Classifier。
type ClassifierFunc func(err error) bool

func (f ClassifierFunc) Retryable(err error) bool {
	return f(err)
}

// AlwaysRetry 返回将一切错误视为可重试的 Classifier。
// 这是 Retryable 的默认分类器，重试上限仍由 MaxAttempts 控制。
func AlwaysRetry() Classifier {
	return ClassifierFunc(func(error) bool { return true })
}

// NeverRetry 返回不重试任何错误的 Classifier。
func NeverRetry() Classifier {
	return ClassifierFunc(func(error) bool { return false })
}

// BackoffPolicy 计算重试间隔。
type BackoffPolicy interface {
	// NextDelay 返回第 attempt 次失败后的退避时长。
	// attempt 从 1 开始。
	NextDelay(attempt int) time.Duration
}
