package xmetrics

import "time"

// Gauge 是瞬时值指标：收集周期内的采样，每次构建导出采样的
// 整数均值并清空采样。
type Gauge struct {
	*TimeSeries[int64]
	samples []int64
}

// Set 记录一次采样。
func (g *Gauge) Set(value int64) *Gauge {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.samples = append(g.samples, value)
	return g
}

// Build 交换出采样列表，追加一个取整数均值（无采样时为 0）、
// 以当前时间收尾的点，再走序列构建。
func (g *Gauge) Build() *SeriesData {
	g.mu.Lock()
	defer g.mu.Unlock()

	samples := g.samples
	g.samples = nil

	var mean int64
	if len(samples) > 0 {
		var sum int64
		for _, s := range samples {
			sum += s
		}
		mean = sum / int64(len(samples))
	}

	g.appendLocked(Point{Value: Int64Value(mean), End: time.Now()})
	return g.buildLocked()
}
