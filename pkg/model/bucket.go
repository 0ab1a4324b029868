// Package model 定义补位引擎的核心数据模型
package model

// TimeOfDay 时段分桶
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"   // [6, 12)
	TimeAfternoon TimeOfDay = "afternoon" // [12, 18)
	TimeEvening   TimeOfDay = "evening"   // [18, 22)
	TimeNight     TimeOfDay = "night"     // 其余时段
)

// 时段分桶边界（小时）
// 画像构建与兼容度评分必须共用这组边界，不允许各自定义
const (
	MorningStartHour   = 6
	AfternoonStartHour = 12
	EveningStartHour   = 18
	NightStartHour     = 22
)

// TimeOfDayOf 按开始小时返回时段分桶
func TimeOfDayOf(hour int) TimeOfDay {
	switch {
	case hour >= MorningStartHour && hour < AfternoonStartHour:
		return TimeMorning
	case hour >= AfternoonStartHour && hour < EveningStartHour:
		return TimeAfternoon
	case hour >= EveningStartHour && hour < NightStartHour:
		return TimeEvening
	default:
		return TimeNight
	}
}

// AllTimesOfDay 返回全部时段分桶（固定顺序）
func AllTimesOfDay() []TimeOfDay {
	return []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening, TimeNight}
}

// DurationBucket 时长分桶
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // <= 6 小时
	DurationMedium DurationBucket = "medium" // (6, 10] 小时
	DurationLong   DurationBucket = "long"   // > 10 小时
)

// 时长分桶边界（小时）
const (
	ShortMaxHours  = 6.0
	MediumMaxHours = 10.0
)

// DurationBucketOf 按时长返回分桶
func DurationBucketOf(hours float64) DurationBucket {
	switch {
	case hours <= ShortMaxHours:
		return DurationShort
	case hours <= MediumMaxHours:
		return DurationMedium
	default:
		return DurationLong
	}
}

// AllDurationBuckets 返回全部时长分桶（固定顺序）
func AllDurationBuckets() []DurationBucket {
	return []DurationBucket{DurationShort, DurationMedium, DurationLong}
}
