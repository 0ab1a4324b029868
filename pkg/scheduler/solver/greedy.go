// Package solver 提供批量补位求解器
package solver

import (
	"context"
	"time"

	"github.com/shiftfill/shiftfill/pkg/logger"
	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// GreedySolver 贪心求解器
// 按单元格标识升序逐格补位，每格取第一个通过硬约束的最高分候选
// 不保证全局最优，但结果确定且速度与单元格数线性相关
type GreedySolver struct {
	logger *logger.EngineLogger
}

// NewGreedySolver 创建贪心求解器
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{logger: logger.NewEngineLogger()}
}

// Name 返回求解器名称
func (s *GreedySolver) Name() string {
	return "greedy"
}

// Solve 贪心求解
func (s *GreedySolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	start := time.Now()
	sol := &Solution{
		Assigned: make(map[model.CellKey]Candidate),
		Optimal:  false,
	}

	var applied []*constraint.Assignment
	defer func() {
		// 还原上下文基线，求解过程不得污染共享状态
		for i := len(applied) - 1; i >= 0; i-- {
			m.Context.Revert(applied[i])
		}
	}()

	for _, cell := range m.Cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, cand := range m.Candidates[cell.Key()] {
			a := &constraint.Assignment{EmployeeNumber: cand.EmployeeNumber, Cell: cell}
			if ok, _ := m.Manager.CanAssign(m.Context, a); !ok {
				continue
			}
			m.Context.Apply(a)
			applied = append(applied, a)
			sol.Assigned[cell.Key()] = cand
			sol.TotalScore += cand.Score
			break
		}
	}

	sol.Duration = time.Since(start)
	s.logger.SolveComplete(len(sol.Assigned), len(m.Cells)-len(sol.Assigned), sol.TotalScore, sol.Duration)
	return sol, nil
}
