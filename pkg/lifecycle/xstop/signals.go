package xstop

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

// DefaultSignals 返回默认监听的系统信号列表：SIGINT、SIGTERM。
//
// 每次调用返回新的切片，调用者可安全修改。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}

// Install 安装系统信号监听：收到首个信号时记录日志并置位停止信号。
//
// signals 为空时监听 DefaultSignals()。监听 goroutine 在以下任一情况退出：
// 收到信号、停止信号被其他路径置位、调用返回的卸载函数。
// 卸载函数幂等，可多次调用。
func Install(s *Signal, log xlog.Logger, signals ...os.Signal) func() {
	if s == nil {
		return func() {}
	}
	if len(signals) == 0 {
		signals = DefaultSignals()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	return watchSignals(s, log, sigCh)
}

// watchSignals 监听 sigCh 并在首个信号到来时置位停止信号。
//
// 与 Install 分离是为了测试：测试直接向自建通道投递信号值，
// 避免向进程发送真实系统信号。
func watchSignals(s *Signal, log xlog.Logger, sigCh chan os.Signal) func() {
	if log == nil {
		log = xlog.Discard()
	}
	uninstalled := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			log.Info(context.Background(), "shutdown.signal", xlog.Signal(sig.String()))
			s.Set()
		case <-s.Done():
		case <-uninstalled:
		}
		signal.Stop(sigCh)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(uninstalled)
		})
	}
}
