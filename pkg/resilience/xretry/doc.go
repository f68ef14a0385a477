// Package xretry 提供与停止信号协同的重试执行器。
//
// # 概述
//
// [Retryable] 把三个正交的策略组合成一次受控执行：
//   - 重试预算：[Retryable.MaxAttempts]，包含首次尝试；
//   - 错误分类：[Classifier]，决定哪些错误值得再试；
//   - 退避曲线：[BackoffPolicy]，决定两次尝试之间睡多久，
//     可叠加均匀抖动。
//
// 底层执行委托给 avast/retry-go/v5。
//
// # 与停止信号的协同
//
// 绑定 xstop.Signal 后，重试对优雅停止完全透明：
// 尝试前发现信号已置位立即返回 xstop.ErrStopping；
// 退避休眠中信号置位同样立即中断。ErrStopping 永不触发重试。
//
// # 示例
//
//	err := xretry.New(stop).
//	    MaxAttempts(5).
//	    BackoffDuration(time.Second).
//	    Jitter(false).
//	    Classifier(xretry.ClassifierFunc(isTransient)).
//	    Do(func() error { return callUpstream() })
package xretry
