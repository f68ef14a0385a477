// Package xpool 提供与停止信号联动的固定规模 worker pool。
//
// # 概述
//
// [Pool] 维护固定数量的 worker 和一个有界任务队列。与通用 goroutine 池
// 的区别在于错误语义：池中任何任务的非优雅失败都会置位共享的
// xstop.Signal，使同进程的其他部件（其余任务、指标导出、主循环）
// 在下一个检查点协调退出——一个 worker 挂掉意味着整个进程收尾。
//
// # Future
//
// 每次提交返回 [Future]，消费方可以 select 其 Done 通道或直接 Wait。
// Future 保证恰好解析一次；池关闭路径上的未执行任务以 ErrPoolStopped
// 解析，不会悬挂。
//
// # 示例
//
//	p := xpool.New(stop, xpool.WithWorkers(8), xpool.WithLogger(log))
//	p.Start()
//	defer p.Stop()
//
//	f := xpool.SubmitWithResult(p, func() (int, error) {
//	    return countRows(stop)
//	})
//	n, err := f.Wait()
package xpool
