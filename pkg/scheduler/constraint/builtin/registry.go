// Package builtin 提供内置约束实现
package builtin

import (
	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// RegisterDefaults 向管理器注册默认的三条硬约束
func RegisterDefaults(m *constraint.Manager) {
	m.Register(NewWeeklyHoursConstraint(model.MaxWeeklyHours))
	m.Register(NewWorkDaysConstraint(model.MaxWorkDays))
	m.Register(NewDailyShiftLimitConstraint(model.MaxShiftsPerDay))
}

// DefaultManager 创建带默认硬约束的管理器
func DefaultManager() *constraint.Manager {
	m := constraint.NewManager()
	RegisterDefaults(m)
	return m
}
