// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// WeeklyHoursConstraint 每周最大工时约束
// 按固定的周五到周四排班周累计，已补位工时与临时补位工时合并计算
type WeeklyHoursConstraint struct {
	*BaseConstraint
	maxHours float64
}

// NewWeeklyHoursConstraint 创建每周最大工时约束
func NewWeeklyHoursConstraint(maxHours float64) *WeeklyHoursConstraint {
	return &WeeklyHoursConstraint{
		BaseConstraint: NewBaseConstraint(
			"每周最大工时",
			constraint.TypeMaxWeeklyHours,
			constraint.CategoryHard,
			100,
		),
		maxHours: maxHours,
	}
}

// Evaluate 评估整个排班周
func (c *WeeklyHoursConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for _, emp := range ctx.Employees() {
		hours := ctx.HoursOf(emp)
		if hours > c.maxHours {
			isValid = false
			penalty := c.Weight() * int(hours-c.maxHours+1)
			totalPenalty += penalty
			violations = append(violations, c.CreateViolation(emp, 0,
				fmt.Sprintf("员工 %d 本周工时 %.1f 小时，超过限制 %.0f 小时", emp, hours, c.maxHours),
				penalty))
		}
	}

	return isValid, totalPenalty, violations
}

// EvaluateAssignment 评估叠加一次候选补位
// 恰好达到上限的员工视为饱和，再接任何班次均被拒绝
func (c *WeeklyHoursConstraint) EvaluateAssignment(ctx *constraint.Context, a *constraint.Assignment) (bool, int) {
	total := ctx.HoursOf(a.EmployeeNumber) + a.Cell.DurationHours
	if total > c.maxHours {
		return false, c.Weight() * int(total-c.maxHours+1)
	}
	return true, 0
}
