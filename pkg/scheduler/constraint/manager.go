// Package constraint 定义补位硬约束的接口和管理器
package constraint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shiftfill/shiftfill/pkg/logger"
)

// Manager 约束管理器
type Manager struct {
	constraints []Constraint
	mu          sync.RWMutex
	logger      *logger.EngineLogger
}

// NewManager 创建约束管理器
func NewManager() *Manager {
	return &Manager{
		constraints: make([]Constraint, 0),
		logger:      logger.NewEngineLogger(),
	}
}

// Register 注册约束，同类型约束会被替换
func (m *Manager) Register(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.constraints {
		if existing.Type() == c.Type() {
			m.constraints[i] = c
			return
		}
	}

	m.constraints = append(m.constraints, c)

	// 硬约束在前，权重高的在前
	sort.Slice(m.constraints, func(i, j int) bool {
		ci, cj := m.constraints[i], m.constraints[j]
		if ci.Category() != cj.Category() {
			return ci.Category() == CategoryHard
		}
		return ci.Weight() > cj.Weight()
	})
}

// Unregister 注销约束
func (m *Manager) Unregister(t Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.constraints {
		if c.Type() == t {
			m.constraints = append(m.constraints[:i], m.constraints[i+1:]...)
			return
		}
	}
}

// GetAll 获取所有约束
func (m *Manager) GetAll() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Constraint, len(m.constraints))
	copy(result, m.constraints)
	return result
}

// GetByCategory 按类别获取约束
func (m *Manager) GetByCategory(cat Category) []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Constraint
	for _, c := range m.constraints {
		if c.Category() == cat {
			result = append(result, c)
		}
	}
	return result
}

// Evaluate 评估排班周当前状态下的所有约束
func (m *Manager) Evaluate(ctx *Context) *Result {
	constraints := m.GetAll()

	result := &Result{
		IsValid:        true,
		HardViolations: make([]ViolationDetail, 0),
		SoftViolations: make([]ViolationDetail, 0),
	}

	for _, c := range constraints {
		valid, penalty, details := c.Evaluate(ctx)
		if valid {
			continue
		}
		result.TotalPenalty += penalty

		for _, d := range details {
			if c.Category() == CategoryHard {
				result.IsValid = false
				result.HardViolations = append(result.HardViolations, d)
			} else {
				result.SoftViolations = append(result.SoftViolations, d)
			}
		}
	}

	return result
}

// CanAssign 检查候选补位是否满足全部硬约束
// 不满足时返回第一个被违反的约束名
func (m *Manager) CanAssign(ctx *Context, a *Assignment) (bool, string) {
	for _, c := range m.GetByCategory(CategoryHard) {
		valid, _ := c.EvaluateAssignment(ctx, a)
		if !valid {
			m.logger.ConstraintRejection(a.EmployeeNumber, a.Cell.Key().String(), c.Name())
			return false, fmt.Sprintf("违反硬约束: %s", c.Name())
		}
	}
	return true, ""
}

// Violations 返回候选补位违反的全部约束详情
func (m *Manager) Violations(ctx *Context, a *Assignment) []ViolationDetail {
	var violations []ViolationDetail
	for _, c := range m.GetAll() {
		valid, penalty := c.EvaluateAssignment(ctx, a)
		if !valid {
			violations = append(violations, ViolationDetail{
				ConstraintType: c.Type(),
				ConstraintName: c.Name(),
				EmployeeNumber: a.EmployeeNumber,
				DayNum:         a.Cell.DayNum,
				Message:        fmt.Sprintf("违反约束: %s", c.Name()),
				Severity:       string(c.Category()),
				Penalty:        penalty,
			})
		}
	}
	return violations
}

// Clear 清除所有约束
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints = make([]Constraint, 0)
}

// Count 返回约束数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// Descriptor 约束描述（约束库接口用）
type Descriptor struct {
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Category Category `json:"category"`
	Weight   int      `json:"weight"`
}

// Library 返回已注册约束的描述列表
func (m *Manager) Library() []Descriptor {
	constraints := m.GetAll()
	descs := make([]Descriptor, 0, len(constraints))
	for _, c := range constraints {
		descs = append(descs, Descriptor{
			Name:     c.Name(),
			Type:     c.Type(),
			Category: c.Category(),
			Weight:   c.Weight(),
		})
	}
	return descs
}
