package xstop

import "time"

// Sleep 休眠 d，期间信号置位则立即返回 ErrStopping。
//
// d <= 0 时不休眠，仅检查一次信号。完整睡满后会再检查一次信号，
// 保证调用方在信号置位后的下一个检查点就停下，而不是多跑一轮。
func Sleep(s *Signal, d time.Duration) error {
	if s == nil {
		return ErrNilSignal
	}
	if d <= 0 {
		return s.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.Done():
		return ErrStopping
	case <-timer.C:
		return s.Err()
	}
}

// Wait 等待事件通道 ev 触发（关闭或收到值）。
//
// 返回值语义：
//   - (true, nil): 事件触发；
//   - (false, nil): 等待超时（timeout <= 0 表示无限等待，不会超时返回）；
//   - (_, ErrStopping): 信号置位。事件与信号同时就绪时信号优先。
//
// 事件和超时路径都会在返回前再检查一次信号。
func Wait(s *Signal, ev <-chan struct{}, timeout time.Duration) (bool, error) {
	if s == nil {
		return false, ErrNilSignal
	}
	if s.IsSet() {
		return false, ErrStopping
	}

	if timeout <= 0 {
		select {
		case <-s.Done():
			return false, ErrStopping
		case <-ev:
			return true, s.Err()
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.Done():
		return false, ErrStopping
	case <-ev:
		return true, s.Err()
	case <-timer.C:
		return false, s.Err()
	}
}

// Interval 以固定周期执行 fn，直到信号置位或 fn 返回错误。
//
// fn 在进入循环时立即执行一次；之后每轮补偿 fn 自身的耗时，
// 只睡 period 减去已消耗的部分，使相邻两次执行的起点间隔稳定在 period。
// fn 耗时超过 period 时下一轮立即开始，不做追赶。
//
// 返回值只会是 ErrStopping、fn 的错误或参数错误，不会正常返回 nil。
func Interval(s *Signal, period time.Duration, fn func() error) error {
	if s == nil {
		return ErrNilSignal
	}
	if fn == nil {
		return ErrNilFunc
	}
	if period <= 0 {
		return ErrInvalidPeriod
	}

	for {
		if err := s.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := fn(); err != nil {
			return err
		}

		if err := Sleep(s, period-time.Since(start)); err != nil {
			return err
		}
	}
}
