package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shiftfill/shiftfill/internal/metrics"
	"github.com/shiftfill/shiftfill/pkg/engine"
	"github.com/shiftfill/shiftfill/pkg/stats"
)

// StatsHandler 统计分析HTTP处理器
type StatsHandler struct {
	engine       *engine.Engine
	quality      *stats.QualityAnalyzer
	workload     *stats.WorkloadAnalyzer
	solveTimeout time.Duration
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler(e *engine.Engine, solveTimeout time.Duration) *StatsHandler {
	return &StatsHandler{
		engine:       e,
		quality:      stats.NewQualityAnalyzer(),
		workload:     stats.NewWorkloadAnalyzer(),
		solveTimeout: solveTimeout,
	}
}

// AssignmentQuality 返回一次批量补位的质量指标
// 求解是纯内存计算且不回写仓储，重复调用结果一致
func (h *StatsHandler) AssignmentQuality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.solveTimeout)
		defer cancel()
	}

	result, err := h.engine.FillWeek(ctx)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.quality.Analyze(result))
}

// WorkloadDistribution 返回最新排班周已补位单元格的工作量分布
func (h *StatsHandler) WorkloadDistribution(w http.ResponseWriter, r *http.Request) {
	m := h.workload.Analyze(h.engine.Repository().Week())
	metrics.SetWorkloadGini(m.WorkloadGini)
	respondJSON(w, http.StatusOK, m)
}
