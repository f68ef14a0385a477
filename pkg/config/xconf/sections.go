package xconf

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	mongoopts "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/lifekit/pkg/observability/xmetrics"
)

// 本文件是配置树与各子系统选项之间的翻译层：
// 结构体按 koanf 标签反序列化，再由各自的方法换算成目标包的选项。

// Task 标识产生指标的任务实例。
type Task struct {
	ProjectID string `koanf:"project_id"`
	Location  string `koanf:"location"`
	Namespace string `koanf:"namespace"`
	Job       string `koanf:"job"`
	TaskID    string `koanf:"task_id"`
}

// Labels 返回任务的资源标签表示。
func (t Task) Labels() map[string]string {
	return t.Resource().Labels()
}

// Resource 返回 xmetrics 的任务资源描述。
func (t Task) Resource() xmetrics.TaskResource {
	return xmetrics.TaskResource{
		ProjectID: t.ProjectID,
		Location:  t.Location,
		Namespace: t.Namespace,
		Job:       t.Job,
		TaskID:    t.TaskID,
	}
}

// Monitoring 是指标导出的配置段。
type Monitoring struct {
	// ProjectID 导出目标工程。为空时离线模式，只消费点不发送。
	ProjectID string `koanf:"project_id"`

	// Prefix 业务指标前缀，追加在固定前缀之后。
	Prefix string `koanf:"prefix"`

	// Interval 导出节奏。零值使用 xmetrics 默认。
	Interval time.Duration `koanf:"interval"`

	// BatchSize 单次传输的最大序列数。零值使用 xmetrics 默认。
	BatchSize int `koanf:"batch_size"`

	// Task 任务资源标签，可省略。
	Task *Task `koanf:"task"`
}

// ClientOptions 把配置段换算成 xmetrics.NewClient 的选项。
// 零值字段不产生选项，沿用 xmetrics 的默认。
func (m Monitoring) ClientOptions() []xmetrics.ClientOption {
	var opts []xmetrics.ClientOption
	if m.ProjectID != "" {
		opts = append(opts, xmetrics.WithProject(m.ProjectID))
	}
	if m.Prefix != "" {
		opts = append(opts, xmetrics.WithPrefix(m.Prefix))
	}
	if m.Interval > 0 {
		opts = append(opts, xmetrics.WithInterval(m.Interval))
	}
	if m.BatchSize > 0 {
		opts = append(opts, xmetrics.WithBatchSize(m.BatchSize))
	}
	if m.Task != nil {
		opts = append(opts, xmetrics.WithTask(m.Task.Resource()))
	}
	return opts
}

// ClickHouse 是 ClickHouse 连接的配置段。
type ClickHouse struct {
	Addrs       []string      `koanf:"addrs"`
	Database    string        `koanf:"database"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// Options 换算成 clickhouse.Open 的连接选项。
func (c ClickHouse) Options() *clickhouse.Options {
	return &clickhouse.Options{
		Addr: c.Addrs,
		Auth: clickhouse.Auth{
			Database: c.Database,
			Username: c.Username,
			Password: c.Password,
		},
		DialTimeout: c.DialTimeout,
	}
}

// Mongo 是 MongoDB 连接的配置段。
type Mongo struct {
	URI     string        `koanf:"uri"`
	Timeout time.Duration `koanf:"timeout"`
}

// ClientOptions 换算成 mongo.Connect 的客户端选项。
func (m Mongo) ClientOptions() *mongoopts.ClientOptions {
	opts := mongoopts.Client().ApplyURI(m.URI)
	if m.Timeout > 0 {
		opts = opts.SetTimeout(m.Timeout)
	}
	return opts
}
