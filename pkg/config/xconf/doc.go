// Package xconf 提供基于 koanf 的配置加载、类型化配置段与热重载。
//
// 定位是最小化配置加载器：文件/字节数据加载、反序列化、并发安全的
// Reload。配置治理（必选校验、默认值注入、环境变量覆盖）由上层
// 按需实现，基础读取操作直接使用 Client() 返回的 koanf 实例。
//
// sections.go 提供进程常用配置段的类型化定义（Monitoring、
// ClickHouse、Mongo），每个段都带有换算到目标子系统选项的方法，
// 让 main 函数的装配保持一行一个子系统。
//
// Watch 基于 fsnotify 监视配置文件变更并自动重载，绑定停止信号、
// 内置防抖，可直接作为 xstop.Run 的服务体。
package xconf
