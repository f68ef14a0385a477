// Package xstop 提供长期运行进程的协调停止原语。
//
// # 核心概念
//
// [Signal] 是单向的一次性停止标志：任何部件都可以置位，所有部件都能观察。
// 与 context 取消树不同，它是扁平的——worker、重试、指标导出共享同一个
// 信号，谁先发现问题谁置位，其余部件在下一个检查点退出。
// [Signal.Context] 把信号桥接到以 context 为取消手段的代码。
//
// [ErrStopping] 区分"协调关闭"和"真实故障"：所有阻塞助手在信号置位时
// 返回它，调用链逐层原样上抛，顶层的边界把它按优雅停止处理。
//
// # 阻塞助手
//
// [Sleep]、[Wait]、[Interval] 是可中断的时间原语，信号置位时立即返回
// ErrStopping，不等当前休眠结束。
//
// # 边界与信号
//
// [WithBoundary] 包住一个 goroutine 的主体：记录进出日志、恢复 panic、
// 出错时置位停止信号。[Install] 把 SIGINT/SIGTERM 翻译为信号置位。
// [Run] 用 errgroup 并发运行一组服务，每个服务各有边界。
//
// # 快速开始
//
//	s := xstop.New()
//	defer xstop.Install(s, logger)()
//
//	err := xstop.Run(ctx, s, logger,
//	    xstop.Func("poller", func(log xlog.Logger) error {
//	        return xstop.Interval(s, time.Minute, func() error {
//	            return pollOnce(log)
//	        })
//	    }),
//	)
package xstop
