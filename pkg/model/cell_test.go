package model

import (
	"math"
	"testing"
)

func TestNewCell(t *testing.T) {
	tests := []struct {
		name          string
		start, end    string
		dayNum        int
		wantHours     float64
		wantOvernight bool
		wantErr       bool
	}{
		{
			name:      "普通白班",
			start:     "09:00:00",
			end:       "17:00:00",
			dayNum:    1,
			wantHours: 8,
		},
		{
			name:          "跨午夜班次",
			start:         "22:00:00",
			end:           "06:00:00",
			dayNum:        3,
			wantHours:     8,
			wantOvernight: true,
		},
		{
			name:      "半小时粒度",
			start:     "07:30:00",
			end:       "14:00:00",
			dayNum:    5,
			wantHours: 6.5,
		},
		{
			name:    "无效时间格式",
			start:   "9am",
			end:     "17:00:00",
			dayNum:  1,
			wantErr: true,
		},
		{
			name:    "DayNum 超出范围",
			start:   "09:00:00",
			end:     "17:00:00",
			dayNum:  8,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := NewCell(CellRecord{
				ScheduleDetailID: 1001,
				DayNum:           tt.dayNum,
				StartTime:        tt.start,
				EndTime:          tt.end,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCell() error = %v", err)
			}
			if math.Abs(cell.DurationHours-tt.wantHours) > 1e-9 {
				t.Errorf("DurationHours = %v, want %v", cell.DurationHours, tt.wantHours)
			}
			if cell.Overnight != tt.wantOvernight {
				t.Errorf("Overnight = %v, want %v", cell.Overnight, tt.wantOvernight)
			}
		})
	}
}

func TestCellKeyLess(t *testing.T) {
	a := CellKey{ScheduleDetailID: 100, DayNum: 3}
	b := CellKey{ScheduleDetailID: 100, DayNum: 4}
	c := CellKey{ScheduleDetailID: 101, DayNum: 1}

	if !a.Less(b) || !a.Less(c) || !b.Less(c) {
		t.Error("CellKey 排序不满足先 ScheduleDetailID 后 DayNum")
	}
	if b.Less(a) {
		t.Error("排序应当是反对称的")
	}
}

func TestDayName(t *testing.T) {
	// 排班周固定以周五为第 1 天
	if DayName(1) != "Friday" {
		t.Errorf("DayName(1) = %s, want Friday", DayName(1))
	}
	if DayName(7) != "Thursday" {
		t.Errorf("DayName(7) = %s, want Thursday", DayName(7))
	}
	if DayName(0) != "" {
		t.Errorf("DayName(0) 应返回空串")
	}
}

func TestWeightSum(t *testing.T) {
	if math.Abs(WeightSum()-1.0) > 1e-12 {
		t.Errorf("评分权重之和 = %v, 必须为 1.0", WeightSum())
	}
}
