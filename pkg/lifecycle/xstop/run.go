package xstop

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

// Service 是一个有名字的长期运行单元。
//
// Run 应阻塞直到工作完成或停止信号置位；
// 优雅退出时返回 nil 或 ErrStopping，两者都不算故障。
type Service struct {
	Name string
	Run  func(log xlog.Logger) error
}

// Func 把函数适配为 Service。
func Func(name string, fn func(log xlog.Logger) error) Service {
	return Service{Name: name, Run: fn}
}

// Run 并发运行一组服务并协调关闭。
//
// 每个服务包在自己的边界里：任一服务返回错误或 panic 都会置位停止信号，
// 其余服务应观察信号并退出。返回第一个非优雅错误；
// 全部服务以 nil 或 ErrStopping 收尾时返回 nil。
//
// Run 返回前总会置位停止信号，保证观察同一信号的旁路部件
// （信号监听、指标导出等）一并收尾。
func Run(ctx context.Context, s *Signal, log xlog.Logger, services ...Service) error {
	if s == nil {
		return ErrNilSignal
	}
	defer s.Set()

	var g errgroup.Group
	for _, svc := range services {
		g.Go(func() error {
			err := WithBoundary(ctx, svc.Name, s, log, svc.Run, Reraise())
			// 优雅停止在这里抹平，errgroup 只收集真实故障。
			if errors.Is(err, ErrStopping) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
