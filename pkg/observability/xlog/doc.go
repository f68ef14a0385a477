// Package xlog 提供基于 log/slog 的结构化日志封装。
//
// # 设计理念
//
// xlog 只定义最小化的 Logger 接口：业务代码依赖接口，
// 具体实现可替换。默认实现基于标准库 slog（text/json handler）。
//
//   - 强制 context 传递
//   - 动态级别控制（Leveler，运行时生效）
//   - 按体积轮转的文件输出（lumberjack v2）
//   - 统一的属性 key 和便捷构造函数（Err/Boundary/Component/...）
//
// # 使用示例
//
//	logger, cleanup, err := xlog.New().
//		SetFormat("json").
//		SetLevelString("debug").
//		SetRotation("/var/log/worker.log", xlog.WithMaxSize(64)).
//		Build()
//	if err != nil {
//		panic(err)
//	}
//	defer cleanup()
//
//	log := logger.With(xlog.Component("ingest"), xlog.Correlation(xlog.CorrelationID()))
//	log.Info(ctx, "start")
package xlog
