// Package stats 提供补位结果的统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/shiftfill/shiftfill/pkg/model"
)

// WorkloadMetrics 工作量分布指标
type WorkloadMetrics struct {
	WorkloadGini        float64 `json:"workload_gini"`          // 工时基尼系数 (0=完全均衡)
	WorkloadVariance    float64 `json:"workload_variance"`      // 工时方差
	WorkloadStdDev      float64 `json:"workload_std_dev"`       // 工时标准差
	AvgHoursPerEmployee float64 `json:"avg_hours_per_employee"` // 人均工时
	MaxHours            float64 `json:"max_hours"`              // 最大工时
	MinHours            float64 `json:"min_hours"`              // 最小工时

	EmployeeStats []EmployeeWorkload `json:"employee_stats"`
}

// EmployeeWorkload 员工工作量统计
type EmployeeWorkload struct {
	EmployeeNumber  int64   `json:"employee_number"`
	TotalHours      float64 `json:"total_hours"`
	ShiftCount      int     `json:"shift_count"`
	WorkDays        int     `json:"work_days"`
	OvernightShifts int     `json:"overnight_shifts"`
	Deviation       float64 `json:"deviation"` // 与人均工时的偏差百分比
}

// WorkloadAnalyzer 工作量分析器
type WorkloadAnalyzer struct{}

// NewWorkloadAnalyzer 创建工作量分析器
func NewWorkloadAnalyzer() *WorkloadAnalyzer {
	return &WorkloadAnalyzer{}
}

// Analyze 分析排班周内已补位单元格的工作量分布
func (w *WorkloadAnalyzer) Analyze(week *model.ScheduleWeek) *WorkloadMetrics {
	if week == nil || len(week.Cells) == 0 {
		return &WorkloadMetrics{EmployeeStats: []EmployeeWorkload{}}
	}

	type acc struct {
		hours     float64
		shifts    int
		days      map[int]bool
		overnight int
	}
	byEmp := make(map[int64]*acc)

	for _, c := range week.Cells {
		if c.EmployeeNumber == nil {
			continue
		}
		emp := *c.EmployeeNumber
		a := byEmp[emp]
		if a == nil {
			a = &acc{days: make(map[int]bool)}
			byEmp[emp] = a
		}
		a.hours += c.DurationHours
		a.shifts++
		a.days[c.DayNum] = true
		if c.Overnight {
			a.overnight++
		}
	}

	if len(byEmp) == 0 {
		return &WorkloadMetrics{EmployeeStats: []EmployeeWorkload{}}
	}

	stats := make([]EmployeeWorkload, 0, len(byEmp))
	hours := make([]float64, 0, len(byEmp))
	for emp, a := range byEmp {
		stats = append(stats, EmployeeWorkload{
			EmployeeNumber:  emp,
			TotalHours:      a.hours,
			ShiftCount:      a.shifts,
			WorkDays:        len(a.days),
			OvernightShifts: a.overnight,
		})
		hours = append(hours, a.hours)
	}

	avg := mean(hours)
	variance := varianceOf(hours, avg)
	maxH, minH := extremes(hours)

	for i := range stats {
		if avg > 0 {
			stats[i].Deviation = (stats[i].TotalHours - avg) / avg * 100
		}
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalHours != stats[j].TotalHours {
			return stats[i].TotalHours > stats[j].TotalHours
		}
		return stats[i].EmployeeNumber < stats[j].EmployeeNumber
	})

	return &WorkloadMetrics{
		WorkloadGini:        gini(hours),
		WorkloadVariance:    variance,
		WorkloadStdDev:      math.Sqrt(variance),
		AvgHoursPerEmployee: avg,
		MaxHours:            maxH,
		MinHours:            minH,
		EmployeeStats:       stats,
	}
}

// mean 计算平均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 计算方差
func varianceOf(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// extremes 计算极值
func extremes(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
