// Package context 提供进程上下文相关的子包。
//
// 子包列表：
//   - xctx: 工作单元环境快照，捆绑停止信号、日志、配置与指标
//
// 设计原则：
//   - 环境显式传递，不使用全局变量
//   - 派生轻量且不可变，取消语义统一由停止信号承载
package context
