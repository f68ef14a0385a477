// Package xctx 提供进程内工作单元的环境快照。
//
// Context[C] 把停止信号、日志记录器、强类型配置和指标客户端捆绑
// 在一个不可变值里，沿调用链显式传递。它补充而非替代标准库
// context.Context：取消语义由 xstop.Signal 承载，标准 context 可
// 随时通过 Stop().Context() 获得。
//
// 派生是轻量的：Bind 换绑日志记录器，Boundary 在命名错误边界内
// 执行并把绑定了边界记录器的子上下文交给函数体。其余能力
// （Sleep、Retry、Pool 等）都是对同信号工具包的便捷委托。
package xctx
