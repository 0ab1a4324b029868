package stats

import (
	"math"
	"testing"

	"github.com/shiftfill/shiftfill/pkg/engine"
	"github.com/shiftfill/shiftfill/pkg/model"
)

func filledCell(t *testing.T, emp int64, day int, start, end string) *model.Cell {
	t.Helper()
	e := emp
	c, err := model.NewCell(model.CellRecord{
		ScheduleDetailID: 100,
		DayNum:           day,
		JobNumber:        42,
		EmployeeNumber:   &e,
		StartTime:        start,
		EndTime:          end,
		SnapshotDate:     "2024-10-08",
	})
	if err != nil {
		t.Fatalf("构造单元格失败: %v", err)
	}
	return c
}

func TestQualityAnalyzer(t *testing.T) {
	e1, e2 := int64(7), int64(8)
	result := &engine.FillResult{
		Outcomes: []engine.CellOutcome{
			{Key: model.CellKey{ScheduleDetailID: 1, DayNum: 1}, Status: engine.OutcomeAssigned, EmployeeNumber: &e1, Score: 0.6},
			{Key: model.CellKey{ScheduleDetailID: 2, DayNum: 2}, Status: engine.OutcomeAssigned, EmployeeNumber: &e2, Score: 0.4},
			{Key: model.CellKey{ScheduleDetailID: 3, DayNum: 3}, Status: engine.OutcomeUnresolved},
		},
		Assigned:   2,
		Unresolved: 1,
		TotalScore: 1.0,
		Optimal:    true,
	}

	q := NewQualityAnalyzer().Analyze(result)
	if q.TotalCells != 3 || q.AssignedCells != 2 || q.UnresolvedCells != 1 {
		t.Errorf("计数错误: %+v", q)
	}
	if math.Abs(q.FillRate-2.0/3) > 1e-9 {
		t.Errorf("补位率 = %v", q.FillRate)
	}
	if math.Abs(q.MeanScore-0.5) > 1e-9 {
		t.Errorf("平均兼容度 = %v", q.MeanScore)
	}
	if q.MinScore != 0.4 || q.MaxScore != 0.6 {
		t.Errorf("极值错误: min=%v max=%v", q.MinScore, q.MaxScore)
	}
}

func TestQualityAnalyzerEmpty(t *testing.T) {
	q := NewQualityAnalyzer().Analyze(&engine.FillResult{})
	if q.FillRate != 0 || q.MeanScore != 0 {
		t.Error("空结果的指标应为零")
	}
}

func TestWorkloadAnalyzer(t *testing.T) {
	week := &model.ScheduleWeek{
		SnapshotDate: "2024-10-08",
		Cells: []*model.Cell{
			filledCell(t, 7, 1, "08:00:00", "16:00:00"), // 8h
			filledCell(t, 7, 2, "08:00:00", "16:00:00"), // 8h
			filledCell(t, 8, 3, "22:00:00", "06:00:00"), // 8h 跨午夜
		},
	}

	m := NewWorkloadAnalyzer().Analyze(week)
	if len(m.EmployeeStats) != 2 {
		t.Fatalf("员工数 = %d, want 2", len(m.EmployeeStats))
	}

	// 工时降序：员工 7 在前
	top := m.EmployeeStats[0]
	if top.EmployeeNumber != 7 || top.TotalHours != 16 || top.WorkDays != 2 {
		t.Errorf("员工 7 统计错误: %+v", top)
	}
	second := m.EmployeeStats[1]
	if second.EmployeeNumber != 8 || second.OvernightShifts != 1 {
		t.Errorf("员工 8 统计错误: %+v", second)
	}

	if math.Abs(m.AvgHoursPerEmployee-12) > 1e-9 {
		t.Errorf("人均工时 = %v, want 12", m.AvgHoursPerEmployee)
	}
	if m.MaxHours != 16 || m.MinHours != 8 {
		t.Errorf("极值错误: max=%v min=%v", m.MaxHours, m.MinHours)
	}
	if m.WorkloadGini <= 0 || m.WorkloadGini >= 1 {
		t.Errorf("基尼系数 = %v", m.WorkloadGini)
	}
}

func TestWorkloadAnalyzerUniform(t *testing.T) {
	week := &model.ScheduleWeek{
		SnapshotDate: "2024-10-08",
		Cells: []*model.Cell{
			filledCell(t, 7, 1, "08:00:00", "16:00:00"),
			filledCell(t, 8, 2, "08:00:00", "16:00:00"),
		},
	}

	m := NewWorkloadAnalyzer().Analyze(week)
	if m.WorkloadGini != 0 {
		t.Errorf("完全均衡分布的基尼系数 = %v, want 0", m.WorkloadGini)
	}
	if m.WorkloadVariance != 0 {
		t.Errorf("方差 = %v, want 0", m.WorkloadVariance)
	}
}

func TestWorkloadAnalyzerEmptyWeek(t *testing.T) {
	m := NewWorkloadAnalyzer().Analyze(nil)
	if len(m.EmployeeStats) != 0 {
		t.Error("空排班周应返回空统计")
	}
}
