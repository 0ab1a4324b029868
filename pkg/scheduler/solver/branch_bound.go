// Package solver 提供批量补位求解器
package solver

import (
	"context"
	"time"

	"github.com/shiftfill/shiftfill/pkg/logger"
	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// 浮点分数比较容差
const scoreEpsilon = 1e-12

// 每多少个搜索节点检查一次上下文取消
const cancelCheckInterval = 1024

// BranchAndBoundSolver 分支定界求解器
// 目标：在三条硬约束下最大化补位单元格的兼容度总分，未补位不计分
// 搜索顺序固定：单元格按标识升序，候选按分数降序、员工号升序，
// 最后尝试留空分支；只在严格更优时更新最优解，因此平票时保留
// 搜索顺序中先到达的方案，结果对同一输入完全确定
// 超时或取消时返回已找到的最好方案并标记 Optimal=false
type BranchAndBoundSolver struct {
	logger *logger.EngineLogger
}

// NewBranchAndBoundSolver 创建分支定界求解器
func NewBranchAndBoundSolver() *BranchAndBoundSolver {
	return &BranchAndBoundSolver{logger: logger.NewEngineLogger()}
}

// Name 返回求解器名称
func (s *BranchAndBoundSolver) Name() string {
	return "branch_and_bound"
}

// search 搜索状态
type search struct {
	ctx       context.Context
	model     *Model
	suffixMax []float64 // suffixMax[i] = 第 i 格起剩余单元格的候选分数上界之和

	current   map[model.CellKey]Candidate
	score     float64
	best      map[model.CellKey]Candidate
	bestScore float64
	hasBest   bool

	nodes    int
	canceled bool
}

// Solve 分支定界求解
func (s *BranchAndBoundSolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	start := time.Now()

	totalCandidates := 0
	for _, cands := range m.Candidates {
		totalCandidates += len(cands)
	}
	s.logger.SolveStart(len(m.Cells), totalCandidates)

	st := &search{
		ctx:       ctx,
		model:     m,
		suffixMax: buildSuffixMax(m),
		current:   make(map[model.CellKey]Candidate),
	}

	var applied []*constraint.Assignment
	st.dfs(0, &applied)
	// dfs 回溯保证上下文已还原

	sol := &Solution{
		Assigned:   make(map[model.CellKey]Candidate, len(st.best)),
		TotalScore: st.bestScore,
		Optimal:    !st.canceled,
		Nodes:      st.nodes,
		Duration:   time.Since(start),
	}
	for k, c := range st.best {
		sol.Assigned[k] = c
	}

	if st.canceled {
		if err := ctx.Err(); err != nil && !st.hasBest {
			return nil, err
		}
	}

	s.logger.SolveComplete(len(sol.Assigned), len(m.Cells)-len(sol.Assigned), sol.TotalScore, sol.Duration)
	return sol, nil
}

// buildSuffixMax 计算剪枝用的分数上界
func buildSuffixMax(m *Model) []float64 {
	n := len(m.Cells)
	suffix := make([]float64, n+1)
	for i := n - 1; i >= 0; i-- {
		maxScore := 0.0
		cands := m.Candidates[m.Cells[i].Key()]
		if len(cands) > 0 {
			// 候选已按分数降序排列
			maxScore = cands[0].Score
		}
		suffix[i] = suffix[i+1] + maxScore
	}
	return suffix
}

// dfs 深度优先搜索第 i 个单元格的分支
func (st *search) dfs(i int, applied *[]*constraint.Assignment) {
	if st.canceled {
		return
	}
	st.nodes++
	if st.nodes%cancelCheckInterval == 0 && st.ctx.Err() != nil {
		st.canceled = true
		return
	}

	if i == len(st.model.Cells) {
		if !st.hasBest || st.score > st.bestScore+scoreEpsilon {
			st.bestScore = st.score
			st.best = make(map[model.CellKey]Candidate, len(st.current))
			for k, c := range st.current {
				st.best[k] = c
			}
			st.hasBest = true
		}
		return
	}

	// 剪枝：即使剩余单元格全部取到上界也无法严格超越最优解
	if st.hasBest && st.score+st.suffixMax[i] <= st.bestScore+scoreEpsilon {
		return
	}

	cell := st.model.Cells[i]
	key := cell.Key()

	for _, cand := range st.model.Candidates[key] {
		a := &constraint.Assignment{EmployeeNumber: cand.EmployeeNumber, Cell: cell}
		if ok, _ := st.model.Manager.CanAssign(st.model.Context, a); !ok {
			continue
		}

		st.model.Context.Apply(a)
		*applied = append(*applied, a)
		st.current[key] = cand
		st.score += cand.Score

		st.dfs(i+1, applied)

		st.score -= cand.Score
		delete(st.current, key)
		*applied = (*applied)[:len(*applied)-1]
		st.model.Context.Revert(a)

		if st.canceled {
			return
		}
	}

	// 留空分支
	st.dfs(i+1, applied)
}
