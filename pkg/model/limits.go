// Package model 定义补位引擎的核心数据模型
package model

// 硬约束上限（按周五到周四的固定排班周评估）
const (
	MaxWeeklyHours  = 40.0 // 每周最大工时
	MaxWorkDays     = 5    // 每周最大工作天数
	MaxShiftsPerDay = 1    // 每天最多班次数
)

// 兼容度评分维度权重，总和必须为 1.0
// 偏重行为信号最强的两个维度（星期几与时段）
const (
	WeightDay       = 0.30
	WeightTimeOfDay = 0.25
	WeightJob       = 0.20
	WeightDuration  = 0.15
	WeightShiftType = 0.10
)

// WeightSum 返回全部维度权重之和
func WeightSum() float64 {
	return WeightDay + WeightTimeOfDay + WeightJob + WeightDuration + WeightShiftType
}
