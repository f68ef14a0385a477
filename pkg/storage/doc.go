// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xdberr: 跨驱动的瞬态数据库错误判定与重试分类器
//
// 设计原则：
//   - 错误判定基于 errors.Is/As 的错误链展开，不做字符串匹配
//   - 瞬态与否由驱动语义决定，重试策略由调用方组合
package storage
