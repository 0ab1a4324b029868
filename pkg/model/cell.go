// Package model 定义补位引擎的核心数据模型
package model

import (
	"fmt"
	"time"
)

// CellKey 班次单元格标识（ScheduleDetailID + DayNum 唯一确定一个单元格）
type CellKey struct {
	ScheduleDetailID int64 `json:"schedule_detail_id"`
	DayNum           int   `json:"day_num"`
}

// String 返回标识的字符串形式
func (k CellKey) String() string {
	return fmt.Sprintf("%d/%d", k.ScheduleDetailID, k.DayNum)
}

// Less 返回标识的确定性排序（先 ScheduleDetailID 后 DayNum）
func (k CellKey) Less(other CellKey) bool {
	if k.ScheduleDetailID != other.ScheduleDetailID {
		return k.ScheduleDetailID < other.ScheduleDetailID
	}
	return k.DayNum < other.DayNum
}

// CellRecord 历史数据集中的原始行
// 同一 (ScheduleDetailID, DayNum) 可能存在多条子行（以 CellInfoID 区分），
// 归一化后只保留首条代表行
type CellRecord struct {
	ScheduleDetailID int64  `json:"schedule_detail_id"`
	DayNum           int    `json:"day_num"`
	CellInfoID       int64  `json:"cell_info_id"`
	JobPostID        int64  `json:"job_post_id"`
	JobNumber        int64  `json:"job_number"`
	EmployeeNumber   *int64 `json:"employee_number"` // nil 表示未补位
	StartTime        string `json:"start_time"`      // HH:MM:SS
	EndTime          string `json:"end_time"`        // HH:MM:SS
	SnapshotDate     string `json:"snapshot_date"`   // YYYY-MM-DD
}

// Key 返回记录的单元格标识
func (r *CellRecord) Key() CellKey {
	return CellKey{ScheduleDetailID: r.ScheduleDetailID, DayNum: r.DayNum}
}

// Cell 归一化后的班次单元格（每个标识只有一条）
type Cell struct {
	ScheduleDetailID int64  `json:"schedule_detail_id"`
	DayNum           int    `json:"day_num"`
	CellInfoID       int64  `json:"cell_info_id"`
	JobPostID        int64  `json:"job_post_id"`
	JobNumber        int64  `json:"job_number"`
	EmployeeNumber   *int64 `json:"employee_number"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	SnapshotDate     string `json:"snapshot_date"`

	// 派生属性
	StartHour     int     `json:"start_hour"`
	DurationHours float64 `json:"duration_hours"`
	Overnight     bool    `json:"overnight"` // 班次跨午夜
}

const clockLayout = "15:04:05"

// NewCell 从原始记录构建单元格，解析时间并计算派生属性
// 跨午夜班次（结束时间早于开始时间）时长加一天，整班归属于其 DayNum
func NewCell(r CellRecord) (*Cell, error) {
	start, err := time.Parse(clockLayout, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("解析开始时间 %q 失败: %w", r.StartTime, err)
	}
	end, err := time.Parse(clockLayout, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("解析结束时间 %q 失败: %w", r.EndTime, err)
	}
	if r.DayNum < 1 || r.DayNum > 7 {
		return nil, fmt.Errorf("DayNum %d 超出范围 1-7", r.DayNum)
	}

	overnight := end.Before(start)
	duration := end.Sub(start)
	if overnight {
		duration += 24 * time.Hour
	}

	return &Cell{
		ScheduleDetailID: r.ScheduleDetailID,
		DayNum:           r.DayNum,
		CellInfoID:       r.CellInfoID,
		JobPostID:        r.JobPostID,
		JobNumber:        r.JobNumber,
		EmployeeNumber:   r.EmployeeNumber,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		SnapshotDate:     r.SnapshotDate,
		StartHour:        start.Hour(),
		DurationHours:    duration.Hours(),
		Overnight:        overnight,
	}, nil
}

// Key 返回单元格标识
func (c *Cell) Key() CellKey {
	return CellKey{ScheduleDetailID: c.ScheduleDetailID, DayNum: c.DayNum}
}

// IsUnfilled 检查单元格是否未补位
func (c *Cell) IsUnfilled() bool {
	return c.EmployeeNumber == nil
}

// TimeOfDay 返回单元格的时段分桶
func (c *Cell) TimeOfDay() TimeOfDay {
	return TimeOfDayOf(c.StartHour)
}

// DurationBucket 返回单元格的时长分桶
func (c *Cell) DurationBucket() DurationBucket {
	return DurationBucketOf(c.DurationHours)
}
