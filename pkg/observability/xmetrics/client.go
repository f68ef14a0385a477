package xmetrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
	"github.com/omeyang/lifekit/pkg/observability/xlog"
	"github.com/omeyang/lifekit/pkg/resilience/xretry"
)

const (
	// MetricPrefix 是自定义指标类型名的固定前缀。
	MetricPrefix = "custom.googleapis.com/"

	defaultInterval  = 30 * time.Second
	defaultBatchSize = 200

	exportAttempts = 5
)

// 测试会缩短退避以免拖慢用例，生产路径不修改。
var exportBackoff = time.Second

// TaskResource 标识产生指标的任务实例，作为 generic_task 资源标签导出。
type TaskResource struct {
	ProjectID string
	Location  string
	Namespace string
	Job       string
	TaskID    string
}

// Labels 返回任务实例的 generic_task 资源标签表示。
func (t TaskResource) Labels() map[string]string {
	return map[string]string{
		"project_id": t.ProjectID,
		"location":   t.Location,
		"namespace":  t.Namespace,
		"job":        t.Job,
		"task_id":    t.TaskID,
	}
}

// ClientOption 配置 Client。
type ClientOption func(*Client)

// WithProject 设置导出目标工程。不设置时导出轮次只消费点、不发送
// （离线/测试模式）。
func WithProject(projectID string) ClientOption {
	return func(c *Client) {
		if projectID != "" {
			c.name = "projects/" + projectID
		}
	}
}

// WithPrefix 在固定前缀之后追加业务前缀，
// 最终指标类型名形如 custom.googleapis.com/<prefix>/<name>。
func WithPrefix(prefix string) ClientOption {
	return func(c *Client) {
		c.prefix = joinMetric(MetricPrefix, prefix)
	}
}

// WithTask 设置任务资源标签，之后创建的所有序列自动携带。
func WithTask(task TaskResource) ClientOption {
	return func(c *Client) {
		c.task = task.Labels()
	}
}

// WithInterval 设置导出节奏。非正值被忽略，保持默认 30s。
func WithInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithBatchSize 设置单次传输的最大序列数。非正值被忽略，保持默认 200。
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithLogger 设置日志记录器。传入 nil 将被忽略。
func WithLogger(log xlog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client 维护活跃指标序列的注册表，并驱动后台导出循环。
//
// 注册表不拥有序列：序列的生命周期归创建方，Close 显式解除注册。
// 导出循环是单 goroutine，按固定节奏构建快照并分批发送，
// 停止信号置位后执行恰好一次收尾导出再退出。
type Client struct {
	stop      *xstop.Signal
	transport Transport
	name      string
	prefix    string
	task      map[string]string
	interval  time.Duration
	batchSize int
	log       xlog.Logger

	mu       sync.Mutex
	registry map[exporter]struct{}

	startOnce sync.Once
	done      chan struct{}
}

// NewClient 创建指标客户端。
//
// stop 为 nil 时内部创建独立信号。transport 为 nil 时只累积并消费点，
// 不做任何发送（与未设置 WithProject 等效）。
func NewClient(stop *xstop.Signal, transport Transport, opts ...ClientOption) *Client {
	if stop == nil {
		stop = xstop.New()
	}
	c := &Client{
		stop:      stop,
		transport: transport,
		prefix:    strings.TrimSuffix(MetricPrefix, "/"),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		log:       xlog.Discard(),
		registry:  make(map[exporter]struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// NewTimeSeries 创建并注册一个裸时间序列。
//
// 泛型方法受限于 Go 规范，只能以包级函数提供。
func NewTimeSeries[T Value](c *Client, name string) *TimeSeries[T] {
	ts := newTimeSeries[T](c, c.metricType(name))
	ts.handle = ts
	if len(c.task) > 0 {
		ts.ResourceLabels(c.task)
	}
	c.register(ts)
	return ts
}

// Counter 创建并注册一个计数器。initial 是起始总量。
func (c *Client) Counter(name string, initial int64) *Counter {
	ct := &Counter{
		TimeSeries: newTimeSeries[int64](c, c.metricType(name)),
		total:      initial,
	}
	ct.handle = ct
	if len(c.task) > 0 {
		ct.ResourceLabels(c.task)
	}
	c.register(ct)
	return ct
}

// Gauge 创建并注册一个瞬时值指标。
func (c *Client) Gauge(name string) *Gauge {
	g := &Gauge{
		TimeSeries: newTimeSeries[int64](c, c.metricType(name)),
	}
	g.handle = g
	if len(c.task) > 0 {
		g.ResourceLabels(c.task)
	}
	c.register(g)
	return g
}

func (c *Client) metricType(name string) string {
	return joinMetric(c.prefix, name)
}

func (c *Client) register(e exporter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry[e] = struct{}{}
}

// close 将序列从注册表移除。不在注册表中时为空操作。
func (c *Client) close(e exporter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registry, e)
}

// Len 返回注册表中的序列数量。
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.registry)
}

// Start 启动后台导出循环。幂等。
func (c *Client) Start() {
	c.startOnce.Do(func() {
		c.log.Debug(context.Background(), "metrics.start")
		go c.run()
	})
}

// Join 阻塞直到导出循环退出。未 Start 过的 Client 会一直阻塞，
// 调用方应先 Start。
func (c *Client) Join() {
	<-c.done
}

// Stop 置位停止信号并等待导出循环完成收尾导出。
func (c *Client) Stop() {
	c.stop.Set()
	c.Join()
}

// Run 等价于 Start 后 Join，用作 xstop.Run 的服务体。
func (c *Client) Run() {
	c.Start()
	c.Join()
}

// run 是导出循环本体，包在错误边界内：导出不可恢复地失败时
// 置位停止信号并记录日志，而不是悄悄死掉。
func (c *Client) run() {
	defer close(c.done)

	xstop.WithBoundary(context.Background(), "metrics.time-series.exporter", c.stop, c.log,
		func(blog xlog.Logger) error {
			for !c.stop.IsSet() {
				start := time.Now()

				if err := c.exportAll(blog); err != nil {
					return err
				}

				// 补偿导出耗时，保持节奏稳定；信号置位时跳出做收尾
				if err := xstop.Sleep(c.stop, c.interval-time.Since(start)); err != nil {
					break
				}
			}

			// 收尾导出恰好一次：停机时已累积未导出的点不能静默丢弃
			return c.exportAll(blog)
		})
}

// exportAll 执行一个完整导出轮次。
//
// 快照构建在注册表锁内完成（点总是被消费，即使没有发送目标），
// 网络发送在锁外进行。每个批次经有界重试发送：瞬态错误最多
// 5 次尝试、间隔 1s；非瞬态错误或预算耗尽向上传播，由边界终止循环。
//
// 发送本身不绑定停止信号：收尾导出发生在信号置位之后，绑定会让
// 已累积的点被构建消费后静默丢弃。停机延迟的上界由重试预算约束。
func (c *Client) exportAll(log xlog.Logger) error {
	c.mu.Lock()
	data := make([]*SeriesData, 0, len(c.registry))
	for e := range c.registry {
		if d := e.Build(); d != nil {
			data = append(data, d)
		}
	}
	c.mu.Unlock()

	if c.name == "" || c.transport == nil || len(data) == 0 {
		return nil
	}

	for start := 0; start < len(data); start += c.batchSize {
		end := min(start+c.batchSize, len(data))
		batch := data[start:end]

		retryable := xretry.New(nil).
			MaxAttempts(exportAttempts).
			BackoffDuration(exportBackoff).
			Jitter(false).
			Classifier(xretry.ClassifierFunc(IsTransient)).
			OnRetry(func(attempt int, err error) {
				log.Warn(context.Background(), "metrics.export.retry",
					xlog.Count(int64(attempt)), xlog.Err(err))
			})

		err := retryable.Do(func() error {
			return c.transport.CreateTimeSeries(context.Background(), c.name, batch)
		})
		if err != nil {
			return err
		}

		log.Debug(context.Background(), "metrics.export.batch", xlog.Count(int64(len(batch))))
	}
	return nil
}

// joinMetric 拼接指标名段，归一化多余的斜杠。
func joinMetric(prefix, name string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return prefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
