// Package model 定义补位引擎的核心数据模型
package model

// 排班周为固定的周五到周四窗口：DayNum 1 = 周五，7 = 周四
var dayNames = map[int]string{
	1: "Friday",
	2: "Saturday",
	3: "Sunday",
	4: "Monday",
	5: "Tuesday",
	6: "Wednesday",
	7: "Thursday",
}

// DayName 返回 DayNum 对应的星期名，超出范围返回空串
func DayName(dayNum int) string {
	return dayNames[dayNum]
}

// ScheduleWeek 一个排班周内的全部单元格（周约束的评估单位）
type ScheduleWeek struct {
	SnapshotDate string  `json:"snapshot_date"`
	Cells        []*Cell `json:"cells"`
}

// FilledFor 返回某员工在本周内已补位的单元格
func (w *ScheduleWeek) FilledFor(employeeNumber int64) []*Cell {
	var cells []*Cell
	for _, c := range w.Cells {
		if c.EmployeeNumber != nil && *c.EmployeeNumber == employeeNumber {
			cells = append(cells, c)
		}
	}
	return cells
}

// FilledByEmployee 按员工号分组本周已补位的单元格
func (w *ScheduleWeek) FilledByEmployee() map[int64][]*Cell {
	byEmp := make(map[int64][]*Cell)
	for _, c := range w.Cells {
		if c.EmployeeNumber != nil {
			byEmp[*c.EmployeeNumber] = append(byEmp[*c.EmployeeNumber], c)
		}
	}
	return byEmp
}
