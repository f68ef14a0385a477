package xstop

import "errors"

// ErrStopping 表示进程正在优雅停止。
//
// 这是整个生命周期体系的哨兵错误：Sleep/Wait/Interval、重试、工作池、
// 指标导出循环都用它区分"协调关闭"和"真实故障"。
// 使用 errors.Is(err, ErrStopping) 判断。
var ErrStopping = errors.New("stopping")

// ErrNilSignal 表示传入的停止信号为 nil。
var ErrNilSignal = errors.New("xstop: nil signal")

// ErrNilFunc 表示传入的函数为 nil。
var ErrNilFunc = errors.New("xstop: nil function")

// ErrInvalidPeriod 表示周期参数无效（必须为正数）。
var ErrInvalidPeriod = errors.New("xstop: period must be positive")
