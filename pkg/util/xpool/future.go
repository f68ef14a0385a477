package xpool

import "sync"

// Future 是一次任务提交的结果句柄。
//
// 每个 Future 恰好被解析一次：任务执行完毕、被停止信号拦截
// 或池已关闭，三者必居其一。Wait 和 Done 可被任意多个
// goroutine 并发使用。
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve 写入结果并关闭 done。后续调用为空操作。
func (f *Future[T]) resolve(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done 返回在结果就绪时关闭的通道，用于 select。
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait 阻塞直到结果就绪并返回。
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}
