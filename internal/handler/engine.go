package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shiftfill/shiftfill/internal/metrics"
	"github.com/shiftfill/shiftfill/pkg/engine"
	"github.com/shiftfill/shiftfill/pkg/errors"
	"github.com/shiftfill/shiftfill/pkg/logger"
)

// EngineHandler 补位引擎HTTP处理器
type EngineHandler struct {
	engine       *engine.Engine
	validate     *validator.Validate
	solveTimeout time.Duration
}

// NewEngineHandler 创建补位引擎处理器
func NewEngineHandler(e *engine.Engine, solveTimeout time.Duration) *EngineHandler {
	return &EngineHandler{
		engine:       e,
		validate:     validator.New(),
		solveTimeout: solveTimeout,
	}
}

// ResolveCellRequest 单格补位请求
type ResolveCellRequest struct {
	ScheduleDetailID int64 `json:"schedule_detail_id" validate:"required,gt=0"`
	DayNum           int   `json:"day_num" validate:"required,min=1,max=7"`
}

// ResolveCell 处理单格补位请求
// GET 通过查询参数传入标识，POST 通过JSON请求体传入
func (h *EngineHandler) ResolveCell(w http.ResponseWriter, r *http.Request) {
	req, appErr := h.parseCellRequest(r)
	if appErr != nil {
		metrics.RecordResolve("single", "bad_request")
		respondError(w, appErr)
		return
	}

	outcome, err := h.engine.ResolveCell(r.Context(), req.ScheduleDetailID, req.DayNum)
	if err != nil {
		metrics.RecordResolve("single", "error")
		respondAppError(w, err)
		return
	}

	metrics.RecordResolve("single", string(outcome.Status))
	respondJSON(w, http.StatusOK, outcome)
}

// parseCellRequest 解析单元格标识（查询参数或JSON请求体）
func (h *EngineHandler) parseCellRequest(r *http.Request) (*ResolveCellRequest, *errors.AppError) {
	var req ResolveCellRequest

	if r.Method == http.MethodGet {
		id, err := strconv.ParseInt(r.URL.Query().Get("schedule_detail_id"), 10, 64)
		if err != nil {
			return nil, errors.InvalidInput("schedule_detail_id", "必须为整数")
		}
		day, err := strconv.Atoi(r.URL.Query().Get("day_num"))
		if err != nil {
			return nil, errors.InvalidInput("day_num", "必须为整数")
		}
		req.ScheduleDetailID = id
		req.DayNum = day
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errors.New(errors.CodeInvalidInput, "无效的请求体").WithCause(err)
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		return nil, errors.New(errors.CodeValidationFail, "请求参数校验失败").WithDetails(err.Error())
	}
	return &req, nil
}

// FillWeek 处理批量补位请求
// 对最新排班周的全部未补位单元格做联合求解
func (h *EngineHandler) FillWeek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.solveTimeout)
		defer cancel()
	}

	result, err := h.engine.FillWeek(ctx)
	if err != nil {
		metrics.RecordResolve("batch", "error")
		logger.Error().Err(err).Msg("批量补位失败")
		respondAppError(w, err)
		return
	}

	metrics.RecordResolve("batch", "ok")
	metrics.RecordSolve(result.Solver, result.Nodes, result.Duration)
	if len(result.Outcomes) > 0 {
		metrics.SetFillRate(float64(result.Assigned) / float64(len(result.Outcomes)))
	}
	metrics.SetSolutionScore(result.TotalScore)

	respondJSON(w, http.StatusOK, result)
}

// ValidateSchedule 校验最新排班周中已补位单元格是否满足全部约束
func (h *EngineHandler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.ValidateExisting())
}

// ExplainCandidate 返回某员工对某单元格的兼容度明细
func (h *EngineHandler) ExplainCandidate(w http.ResponseWriter, r *http.Request) {
	emp, err := strconv.ParseInt(r.URL.Query().Get("employee_number"), 10, 64)
	if err != nil {
		respondError(w, errors.InvalidInput("employee_number", "必须为整数"))
		return
	}
	req, appErr := h.parseCellRequest(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	breakdown, berr := h.engine.ExplainCandidate(emp, req.ScheduleDetailID, req.DayNum)
	if berr != nil {
		respondAppError(w, berr)
		return
	}
	respondJSON(w, http.StatusOK, breakdown)
}

// ConstraintLibrary 返回已注册约束的描述列表
func (h *EngineHandler) ConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"constraints": h.engine.Manager().Library(),
	})
}

// Health 返回引擎健康信息
func (h *EngineHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status)
}
