package clock

import "time"

// Clock 时间来源，便于测试固定"今天"
type Clock interface {
	Now() time.Time
}

// RealClock 系统时间
type RealClock struct{}

// NewRealClock 创建系统时钟
func NewRealClock() Clock {
	return RealClock{}
}

// Now 返回当前时间
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock 固定时间，用于测试与可复现的生成
type FixedClock struct {
	current time.Time
}

// NewFixedClock 创建固定时钟
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

// Now 返回固定时间
func (c *FixedClock) Now() time.Time {
	return c.current
}

// Advance 前移时钟
func (c *FixedClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
