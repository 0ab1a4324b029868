// Package solver 提供批量补位求解器
package solver

import (
	"context"
	"sort"
	"time"

	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
)

// Candidate 某个单元格的一个合法候选员工及其兼容度
type Candidate struct {
	EmployeeNumber int64   `json:"employee_number"`
	Score          float64 `json:"score"`
}

// Model 求解模型
// Cells 为待补位单元格（按标识升序），Candidates 为每个单元格的候选列表
// （按分数降序、员工号升序），Context 携带排班周的基线状态
type Model struct {
	Context    *constraint.Context
	Manager    *constraint.Manager
	Cells      []*model.Cell
	Candidates map[model.CellKey][]Candidate
}

// NormalizeOrder 对单元格与候选列表做确定性排序
// 求解结果的平票裁决依赖这个顺序，构建模型后必须调用
func (m *Model) NormalizeOrder() {
	sort.Slice(m.Cells, func(i, j int) bool {
		return m.Cells[i].Key().Less(m.Cells[j].Key())
	})
	for key, cands := range m.Candidates {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].Score != cands[j].Score {
				return cands[i].Score > cands[j].Score
			}
			return cands[i].EmployeeNumber < cands[j].EmployeeNumber
		})
		m.Candidates[key] = cands
	}
}

// Solution 求解结果
type Solution struct {
	Assigned   map[model.CellKey]Candidate `json:"assigned"`
	TotalScore float64                     `json:"total_score"`
	Optimal    bool                        `json:"optimal"` // 是否证明最优（超时返回 false）
	Nodes      int                         `json:"nodes"`
	Duration   time.Duration               `json:"duration"`
}

// Solver 求解器接口
type Solver interface {
	// Solve 求解补位方案
	Solve(ctx context.Context, m *Model) (*Solution, error)

	// Name 返回求解器名称
	Name() string
}
