package cache

import "time"

// NoExpiration 作为时长传给 SetFor 时表示条目永不过期。
const NoExpiration time.Duration = -1

// IsExpired 判断给定年龄（秒）是否超过有效期（秒）。负数有效期永不过期；
// age == duration 仍视为有效。
func IsExpired(age, duration int64) bool {
	return duration >= 0 && age > duration
}

// Expired 对 Info 应用 IsExpired。
func (i Info) Expired() bool {
	return IsExpired(i.Age, i.Duration)
}

// durationSeconds 将 time.Duration 截断为整秒，任意负值统一为 -1。
func durationSeconds(d time.Duration) int64 {
	if d < 0 {
		return -1
	}
	return int64(d / time.Second)
}

// ageSeconds 返回 now 与 mtime 相差的整秒数，时钟回拨时截断为 0。
func ageSeconds(now, mtime time.Time) int64 {
	age := int64(now.Sub(mtime) / time.Second)
	if age < 0 {
		return 0
	}
	return age
}
