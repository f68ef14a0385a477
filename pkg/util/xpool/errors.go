package xpool

import "errors"

var (
	// ErrPoolStopped 表示 worker pool 已关闭，无法提交任务。
	ErrPoolStopped = errors.New("xpool: pool is stopped")

	// ErrNilFunc 表示提交的任务函数为 nil。
	ErrNilFunc = errors.New("xpool: nil function")
)
