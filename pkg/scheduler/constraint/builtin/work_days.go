// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// WorkDaysConstraint 每周最大工作天数约束
// 只数不同的 DayNum，同一天的多个班次算一天
type WorkDaysConstraint struct {
	*BaseConstraint
	maxDays int
}

// NewWorkDaysConstraint 创建每周最大工作天数约束
func NewWorkDaysConstraint(maxDays int) *WorkDaysConstraint {
	return &WorkDaysConstraint{
		BaseConstraint: NewBaseConstraint(
			"每周最大工作天数",
			constraint.TypeMaxWorkDays,
			constraint.CategoryHard,
			100,
		),
		maxDays: maxDays,
	}
}

// Evaluate 评估整个排班周
func (c *WorkDaysConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for _, emp := range ctx.Employees() {
		days := ctx.WorkDaysOf(emp)
		if days > c.maxDays {
			isValid = false
			penalty := c.Weight() * (days - c.maxDays)
			totalPenalty += penalty
			violations = append(violations, c.CreateViolation(emp, 0,
				fmt.Sprintf("员工 %d 本周工作 %d 天，超过限制 %d 天", emp, days, c.maxDays),
				penalty))
		}
	}

	return isValid, totalPenalty, violations
}

// EvaluateAssignment 评估叠加一次候选补位
// 在已工作的 DayNum 上追加班次不占用新的天数
func (c *WorkDaysConstraint) EvaluateAssignment(ctx *constraint.Context, a *constraint.Assignment) (bool, int) {
	days := ctx.WorkDaysOf(a.EmployeeNumber)
	if ctx.ShiftsOn(a.EmployeeNumber, a.Cell.DayNum) == 0 {
		days++
	}
	if days > c.maxDays {
		return false, c.Weight() * (days - c.maxDays)
	}
	return true, 0
}
