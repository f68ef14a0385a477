package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，slog.Level 的本包别名类型，让 Builder 与 Leveler
// 的签名不泄漏底层实现。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

func (l Level) String() string {
	return slog.Level(l).String()
}

// ParseLevel 解析配置中的级别字符串。
// 大小写不敏感，容忍首尾空白，接受 warning 作为 warn 的别名。
// 无法识别时返回 LevelInfo 与错误。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}
