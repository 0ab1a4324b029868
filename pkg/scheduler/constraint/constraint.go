// Package constraint 定义补位硬约束的接口和管理器
package constraint

import (
	"github.com/shiftfill/shiftfill/pkg/model"
)

// Type 约束类型标识
type Type string

const (
	TypeMaxWeeklyHours  Type = "max_weekly_hours"
	TypeMaxWorkDays     Type = "max_work_days"
	TypeMaxShiftsPerDay Type = "max_shifts_per_day"
)

// Category 约束类别
type Category string

const (
	CategoryHard Category = "hard" // 硬约束（必须满足）
	CategorySoft Category = "soft" // 软约束（尽量满足）
)

// Assignment 一次候选补位（员工 + 单元格）
type Assignment struct {
	EmployeeNumber int64       `json:"employee_number"`
	Cell           *model.Cell `json:"cell"`
}

// Constraint 约束接口
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Category 返回约束类别
	Category() Category

	// Weight 返回约束权重 (1-100)
	Weight() int

	// Evaluate 评估整个排班周
	// 返回：是否满足、惩罚值、违反详情
	Evaluate(ctx *Context) (valid bool, penalty int, details []ViolationDetail)

	// EvaluateAssignment 评估在当前状态上叠加一次候选补位
	// 返回：是否满足、惩罚值
	EvaluateAssignment(ctx *Context, a *Assignment) (valid bool, penalty int)
}

// ViolationDetail 约束违反详情
type ViolationDetail struct {
	ConstraintType Type   `json:"constraint_type"`
	ConstraintName string `json:"constraint_name"`
	EmployeeNumber int64  `json:"employee_number,omitempty"`
	DayNum         int    `json:"day_num,omitempty"`
	Message        string `json:"message"`
	Severity       string `json:"severity"` // error/warning
	Penalty        int    `json:"penalty"`
}

// Context 约束评估上下文
// 以排班周的已补位单元格为基线，叠加求解过程中的临时补位
// Apply/Revert 成对使用，供求解器做回溯搜索
type Context struct {
	Week *model.ScheduleWeek `json:"week"`

	// 每员工累计状态（基线 + 临时补位）
	hours       map[int64]float64
	shiftsByDay map[int64]map[int]int

	assignments []*Assignment
}

// NewContext 从排班周构建上下文，基线为周内全部已补位单元格
func NewContext(week *model.ScheduleWeek) *Context {
	c := &Context{
		Week:        week,
		hours:       make(map[int64]float64),
		shiftsByDay: make(map[int64]map[int]int),
	}
	if week != nil {
		for _, cell := range week.Cells {
			if cell.EmployeeNumber != nil {
				c.add(*cell.EmployeeNumber, cell)
			}
		}
	}
	return c
}

// add 累加一个单元格到员工状态
func (c *Context) add(emp int64, cell *model.Cell) {
	c.hours[emp] += cell.DurationHours
	if c.shiftsByDay[emp] == nil {
		c.shiftsByDay[emp] = make(map[int]int)
	}
	c.shiftsByDay[emp][cell.DayNum]++
}

// remove 从员工状态中扣除一个单元格
func (c *Context) remove(emp int64, cell *model.Cell) {
	c.hours[emp] -= cell.DurationHours
	if byDay := c.shiftsByDay[emp]; byDay != nil {
		byDay[cell.DayNum]--
		if byDay[cell.DayNum] <= 0 {
			delete(byDay, cell.DayNum)
		}
	}
}

// Apply 叠加一次临时补位
func (c *Context) Apply(a *Assignment) {
	c.add(a.EmployeeNumber, a.Cell)
	c.assignments = append(c.assignments, a)
}

// Revert 撤销最近一次 Apply 的补位（回溯用）
func (c *Context) Revert(a *Assignment) {
	c.remove(a.EmployeeNumber, a.Cell)
	for i := len(c.assignments) - 1; i >= 0; i-- {
		if c.assignments[i] == a {
			c.assignments = append(c.assignments[:i], c.assignments[i+1:]...)
			break
		}
	}
}

// Assignments 返回当前叠加的全部临时补位
func (c *Context) Assignments() []*Assignment {
	return c.assignments
}

// HoursOf 返回员工当前累计工时
func (c *Context) HoursOf(emp int64) float64 {
	return c.hours[emp]
}

// WorkDaysOf 返回员工当前工作的不同天数
func (c *Context) WorkDaysOf(emp int64) int {
	return len(c.shiftsByDay[emp])
}

// ShiftsOn 返回员工在某 DayNum 的班次数
func (c *Context) ShiftsOn(emp int64, dayNum int) int {
	return c.shiftsByDay[emp][dayNum]
}

// Employees 返回状态中出现过的员工号
func (c *Context) Employees() []int64 {
	emps := make([]int64, 0, len(c.hours))
	for e := range c.hours {
		emps = append(emps, e)
	}
	return emps
}

// Result 约束评估结果
type Result struct {
	IsValid        bool              `json:"is_valid"`
	TotalPenalty   int               `json:"total_penalty"`
	HardViolations []ViolationDetail `json:"hard_violations"`
	SoftViolations []ViolationDetail `json:"soft_violations"`
}
