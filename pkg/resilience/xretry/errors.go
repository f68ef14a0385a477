package xretry

import "errors"

// ErrNilRetryable 表示在 nil 的 *Retryable 上调用了执行方法。
var ErrNilRetryable = errors.New("xretry: nil retryable")

// ErrNilFunc 表示传入的操作函数为 nil。
var ErrNilFunc = errors.New("xretry: nil function")
