package xlog

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// 常用属性 Key 常量
// =============================================================================

const (
	// KeyError 错误字段的标准 key
	KeyError = "error"

	// KeyBoundary 错误边界名称字段的标准 key
	KeyBoundary = "boundary"

	// KeyDuration 耗时字段的标准 key
	KeyDuration = "duration"

	// KeyCount 计数字段的标准 key
	KeyCount = "count"

	// KeyComponent 组件名称字段的标准 key
	KeyComponent = "component"

	// KeySignal 系统信号字段的标准 key
	KeySignal = "signal"

	// KeyCorrelation 日志关联 ID 字段的标准 key
	KeyCorrelation = "correlation_id"
)

// =============================================================================
// 便捷属性构造函数
// =============================================================================

// Err 创建错误属性
//
// 这是记录错误的标准方式，使用统一的 key "error"。
// 如果 err 为 nil，返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Boundary 创建错误边界名称属性
func Boundary(name string) slog.Attr {
	return slog.String(KeyBoundary, name)
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Signal 创建系统信号属性
func Signal(name string) slog.Attr {
	return slog.String(KeySignal, name)
}

// Correlation 创建日志关联 ID 属性
func Correlation(id string) slog.Attr {
	return slog.String(KeyCorrelation, id)
}

// CorrelationID 生成一个短随机 ID，用于把同一次 worker 运行的日志串起来。
//
// 取 UUID 的前 8 个十六进制字符，碰撞概率对日志关联场景足够低。
func CorrelationID() string {
	id := uuid.NewString()
	return strings.ReplaceAll(id, "-", "")[:8]
}
