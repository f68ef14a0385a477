// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持动态级别与文件轮转
//   - xmetrics: 指标聚合与导出，Counter/Gauge/通用时间序列
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 指标导出绑定进程停止信号，停机时完成收尾导出
//   - 支持动态级别控制
package observability
