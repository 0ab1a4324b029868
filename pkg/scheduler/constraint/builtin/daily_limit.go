// Package builtin 提供内置约束实现
package builtin

import (
	"fmt"

	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// DailyShiftLimitConstraint 每天最多班次数约束
// 跨午夜班次整班归属于其 DayNum，不拆分到次日
type DailyShiftLimitConstraint struct {
	*BaseConstraint
	maxShifts int
}

// NewDailyShiftLimitConstraint 创建每天最多班次数约束
func NewDailyShiftLimitConstraint(maxShifts int) *DailyShiftLimitConstraint {
	return &DailyShiftLimitConstraint{
		BaseConstraint: NewBaseConstraint(
			"每天最多班次数",
			constraint.TypeMaxShiftsPerDay,
			constraint.CategoryHard,
			100,
		),
		maxShifts: maxShifts,
	}
}

// Evaluate 评估整个排班周
func (c *DailyShiftLimitConstraint) Evaluate(ctx *constraint.Context) (bool, int, []constraint.ViolationDetail) {
	var violations []constraint.ViolationDetail
	totalPenalty := 0
	isValid := true

	for _, emp := range ctx.Employees() {
		for day := 1; day <= 7; day++ {
			shifts := ctx.ShiftsOn(emp, day)
			if shifts > c.maxShifts {
				isValid = false
				penalty := c.Weight() * (shifts - c.maxShifts)
				totalPenalty += penalty
				violations = append(violations, c.CreateViolation(emp, day,
					fmt.Sprintf("员工 %d 在 DayNum %d 有 %d 个班次，超过限制 %d 个", emp, day, shifts, c.maxShifts),
					penalty))
			}
		}
	}

	return isValid, totalPenalty, violations
}

// EvaluateAssignment 评估叠加一次候选补位
func (c *DailyShiftLimitConstraint) EvaluateAssignment(ctx *constraint.Context, a *constraint.Assignment) (bool, int) {
	shifts := ctx.ShiftsOn(a.EmployeeNumber, a.Cell.DayNum) + 1
	if shifts > c.maxShifts {
		return false, c.Weight() * (shifts - c.maxShifts)
	}
	return true, 0
}
