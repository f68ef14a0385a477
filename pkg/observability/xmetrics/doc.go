// Package xmetrics 提供周期批量导出的指标聚合器。
//
// # 模型
//
// 指标是累加器：业务代码随时打点（[TimeSeries.Point]、[Counter.Inc]、
// [Gauge.Set]），后台的 [Client] 按固定节奏把累积的点构建成快照
// （[SeriesData]），分批送往 [Transport]。构建即交换：每次导出拿走
// 本周期的点，下一周期从空开始。
//
//   - [Counter]: 导出周期内的增量，构建后总量清零；
//   - [Gauge]: 导出周期内采样的整数均值；
//   - [TimeSeries]: 裸点序列，打什么导什么。
//
// # 生命周期
//
// Client 的注册表只作查找，不管理序列生命周期；不再使用的序列
// 调用 Close 解除注册，否则它会一直留在导出轮次里（对长期存活的
// 指标这正是期望行为）。
//
// 导出循环与进程的停止信号联动：信号置位后循环做恰好一次收尾
// 导出再退出，已累积的点不会在停机时丢失。瞬态传输错误（超时、
// 服务端过载）有界重试，非瞬态错误经错误边界置位停止信号。
//
// # Transport
//
// [Transport] 只有一个方法，生产环境接具体监控后端，
// 测试里用 [TransportFunc] 打桩。[OTelTransport] 提供到
// OpenTelemetry 仪表体系的尽力而为桥接。
package xmetrics
