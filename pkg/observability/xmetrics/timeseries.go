package xmetrics

import (
	"sync"
	"time"
)

// DefaultResourceType 是时间序列的默认监控资源类型。
const DefaultResourceType = "generic_task"

// SeriesData 是一次构建产出的、可直接送给 Transport 的序列快照。
type SeriesData struct {
	MetricType     string
	MetricLabels   map[string]string
	ResourceType   string
	ResourceLabels map[string]string
	Points         []Point
}

// exporter 是注册表对序列的唯一视角：能被构建成快照即可。
type exporter interface {
	Build() *SeriesData
}

// TimeSeries 是指标点的累加器。
//
// 标签修改、打点和构建都在同一把互斥锁下进行，锁只保护内存交换，
// 从不跨越阻塞调用。链式方法返回自身便于声明式初始化：
//
//	ts := xmetrics.NewTimeSeries[int64](client, "queue/depth").
//	    MetricLabel("shard", "eu-1")
type TimeSeries[T Value] struct {
	owner  *Client
	handle exporter

	mu             sync.Mutex
	metricType     string
	metricLabels   map[string]string
	resourceType   string
	resourceLabels map[string]string
	points         []Point
}

func newTimeSeries[T Value](owner *Client, metricType string) *TimeSeries[T] {
	return &TimeSeries[T]{
		owner:          owner,
		metricType:     metricType,
		metricLabels:   make(map[string]string),
		resourceType:   DefaultResourceType,
		resourceLabels: make(map[string]string),
	}
}

// MetricType 返回完整的指标类型名（含前缀）。
func (ts *TimeSeries[T]) MetricType() string {
	return ts.metricType
}

// MetricLabel 设置一个指标标签。
func (ts *TimeSeries[T]) MetricLabel(key, value string) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.metricLabels[key] = value
	return ts
}

// MetricLabels 整体替换指标标签。传入的 map 被拷贝。
func (ts *TimeSeries[T]) MetricLabels(labels map[string]string) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.metricLabels = copyLabels(labels)
	return ts
}

// ResourceLabel 设置一个资源标签。
func (ts *TimeSeries[T]) ResourceLabel(key, value string) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.resourceLabels[key] = value
	return ts
}

// ResourceLabels 整体替换资源标签。传入的 map 被拷贝。
func (ts *TimeSeries[T]) ResourceLabels(labels map[string]string) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.resourceLabels = copyLabels(labels)
	return ts
}

// ResourceType 设置监控资源类型。默认 generic_task。
func (ts *TimeSeries[T]) ResourceType(resourceType string) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if resourceType != "" {
		ts.resourceType = resourceType
	}
	return ts
}

// Point 追加一个无时间区间的点。
func (ts *TimeSeries[T]) Point(value T) *TimeSeries[T] {
	return ts.PointAt(value, time.Time{}, time.Time{})
}

// PointAt 追加一个带时间区间的点。零值时间表示该端未设置。
func (ts *TimeSeries[T]) PointAt(value T, start, end time.Time) *TimeSeries[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.appendLocked(Point{Value: typedValueOf(value), Start: start, End: end})
	return ts
}

// Build 交换出累积的点并返回可发送的快照。
//
// 没有待发送点时返回 nil——导出轮次据此静默跳过空闲序列。
// 交换是原子的：Build 之后新的打点进入下一个周期。
func (ts *TimeSeries[T]) Build() *SeriesData {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.buildLocked()
}

// Close 将本序列从所属 Client 的注册表移除。
// 之后的打点不再被导出循环看到。幂等。
func (ts *TimeSeries[T]) Close() {
	if ts.owner == nil {
		return
	}
	ts.owner.close(ts.handle)
}

// appendLocked 追加点。调用方必须持有 ts.mu。
func (ts *TimeSeries[T]) appendLocked(p Point) {
	ts.points = append(ts.points, p)
}

// buildLocked 实施交换并组装快照。调用方必须持有 ts.mu。
func (ts *TimeSeries[T]) buildLocked() *SeriesData {
	points := ts.points
	ts.points = nil
	if len(points) == 0 {
		return nil
	}

	return &SeriesData{
		MetricType:     ts.metricType,
		MetricLabels:   copyLabels(ts.metricLabels),
		ResourceType:   ts.resourceType,
		ResourceLabels: copyLabels(ts.resourceLabels),
		Points:         points,
	}
}

func copyLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
