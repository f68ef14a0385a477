package xmetrics

import "time"

// Counter 是累计型指标：累积一个运行总量，每次构建导出自上次
// 导出以来的增量并把总量清零。
type Counter struct {
	*TimeSeries[int64]
	total int64
}

// Inc 将计数加 1。
func (c *Counter) Inc() *Counter {
	return c.Add(1)
}

// Add 将计数加 delta。delta 可以为负。
func (c *Counter) Add(delta int64) *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += delta
	return c
}

// Dec 将计数减 1。
func (c *Counter) Dec() *Counter {
	return c.Add(-1)
}

// Total 返回当前未导出的运行总量。
func (c *Counter) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Build 交换出运行总量（清零），无条件追加一个以当前时间
// 收尾的点，再走序列构建。
//
// 追加发生在待发送点检查之前，因此两次连续构建中间没有任何
// Inc 时，第二次仍会产出一个值为 0 的点——导出端看到的是
// 连续的零增量，而不是序列消失。
func (c *Counter) Build() *SeriesData {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.total
	c.total = 0
	c.appendLocked(Point{Value: Int64Value(total), End: time.Now()})
	return c.buildLocked()
}
