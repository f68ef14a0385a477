// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xpool: 绑定停止信号的 Worker Pool，Future 结果句柄、优雅排空
//
// 设计原则：
//   - 工具只解决一个问题，不引入跨子包依赖
//   - 并发原语对停止信号保持协作
package util
