// Package stats 提供补位结果的统计分析功能
package stats

import (
	"github.com/shiftfill/shiftfill/pkg/engine"
)

// AssignmentQuality 补位质量指标
type AssignmentQuality struct {
	TotalCells      int     `json:"total_cells"`       // 待补位单元格总数
	AssignedCells   int     `json:"assigned_cells"`    // 成功补位数
	UnresolvedCells int     `json:"unresolved_cells"`  // 无合法候选数
	FillRate        float64 `json:"fill_rate"`         // 补位率 (0-1)
	TotalScore      float64 `json:"total_score"`       // 兼容度总分
	MeanScore       float64 `json:"mean_score"`        // 已补位单元格的平均兼容度
	MinScore        float64 `json:"min_score"`         // 最低兼容度
	MaxScore        float64 `json:"max_score"`         // 最高兼容度
	Optimal         bool    `json:"optimal"`           // 是否证明最优
}

// QualityAnalyzer 补位质量分析器
type QualityAnalyzer struct{}

// NewQualityAnalyzer 创建补位质量分析器
func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{}
}

// Analyze 分析一次批量补位的质量
func (q *QualityAnalyzer) Analyze(result *engine.FillResult) *AssignmentQuality {
	quality := &AssignmentQuality{
		TotalCells:      len(result.Outcomes),
		AssignedCells:   result.Assigned,
		UnresolvedCells: result.Unresolved,
		TotalScore:      result.TotalScore,
		Optimal:         result.Optimal,
	}

	if quality.TotalCells > 0 {
		quality.FillRate = float64(quality.AssignedCells) / float64(quality.TotalCells)
	}

	first := true
	for _, out := range result.Outcomes {
		if out.Status != engine.OutcomeAssigned {
			continue
		}
		if first {
			quality.MinScore = out.Score
			quality.MaxScore = out.Score
			first = false
		} else {
			if out.Score < quality.MinScore {
				quality.MinScore = out.Score
			}
			if out.Score > quality.MaxScore {
				quality.MaxScore = out.Score
			}
		}
	}
	if quality.AssignedCells > 0 {
		quality.MeanScore = quality.TotalScore / float64(quality.AssignedCells)
	}

	return quality
}
