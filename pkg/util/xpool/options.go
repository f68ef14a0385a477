package xpool

import "github.com/omeyang/lifekit/pkg/observability/xlog"

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	workers   int
	queueSize int
	logger    xlog.Logger
	name      string
}

func defaultOptions() options {
	return options{
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		logger:    xlog.Discard(),
		name:      "xpool",
	}
}

// WithWorkers 设置 worker 数量。小于 1 的值被忽略，保持默认值 4。
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.workers = n
		}
	}
}

// WithQueueSize 设置任务队列容量。小于 1 的值被忽略，保持默认值 64。
// 队列满时 Submit 阻塞，直到有空位或池被关闭。
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.queueSize = n
		}
	}
}

// WithLogger 设置日志记录器。传入 nil 将被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，用于在多实例场景下区分日志来源。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
