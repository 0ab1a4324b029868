// Package engine 提供补位引擎门面：画像、评分、约束与求解的组装
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shiftfill/shiftfill/pkg/errors"
	"github.com/shiftfill/shiftfill/pkg/logger"
	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/profile"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint"
	"github.com/shiftfill/shiftfill/pkg/scheduler/constraint/builtin"
	"github.com/shiftfill/shiftfill/pkg/scheduler/solver"
	"github.com/shiftfill/shiftfill/pkg/snapshot"
)

// Engine 补位引擎
// 构建完成后全部状态只读，可被多个请求并发使用
// 单格与批量两种模式都不回写仓储，同一输入重复调用结果一致
type Engine struct {
	repo       *snapshot.Repository
	profiles   *profile.Set
	scorer     *profile.Scorer
	manager    *constraint.Manager
	solver     solver.Solver
	population []int64 // 可参与补位的员工号（升序）
	log        *logger.EngineLogger
	builtAt    time.Time
}

// Params 引擎构建参数
type Params struct {
	// Historical 归一化后的历史单元格语料（画像构建输入）
	Historical []*model.Cell

	// Latest 最新快照的原始记录（待补位排班周）
	Latest []model.CellRecord

	// Solver 批量求解器，默认分支定界
	Solver solver.Solver

	// Manager 约束管理器，默认注册三条内置硬约束
	Manager *constraint.Manager
}

// New 构建补位引擎
// 员工总体为历史语料中出现过的员工与最新快照中已补位员工的并集，
// 无历史记录的员工按均匀画像参与评分
func New(p Params) (*Engine, error) {
	start := time.Now()

	repo, err := snapshot.New(p.Latest)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatasetError, "最新快照归一化失败")
	}

	profiles := profile.NewBuilder().Build(p.Historical)

	popSet := make(map[int64]bool)
	for _, emp := range profiles.Employees() {
		popSet[emp] = true
	}
	for _, c := range repo.FilledCells() {
		popSet[*c.EmployeeNumber] = true
	}
	population := make([]int64, 0, len(popSet))
	for emp := range popSet {
		population = append(population, emp)
	}
	sort.Slice(population, func(i, j int) bool { return population[i] < population[j] })

	mgr := p.Manager
	if mgr == nil {
		mgr = builtin.DefaultManager()
	}
	slv := p.Solver
	if slv == nil {
		slv = solver.NewBranchAndBoundSolver()
	}

	e := &Engine{
		repo:       repo,
		profiles:   profiles,
		scorer:     profile.NewScorer(),
		manager:    mgr,
		solver:     slv,
		population: population,
		log:        logger.NewEngineLogger(),
		builtAt:    time.Now(),
	}

	e.log.DuplicateRowsCollapsed(repo.DuplicateCount())
	e.log.ProfilesBuilt(profiles.Len(), profiles.CorpusSize(), time.Since(start))
	return e, nil
}

// OutcomeStatus 单元格处置结果状态
type OutcomeStatus string

const (
	OutcomeNotFound      OutcomeStatus = "not_found"      // 标识不存在
	OutcomeAlreadyFilled OutcomeStatus = "already_filled" // 已补位，返回现任员工
	OutcomeAssigned      OutcomeStatus = "assigned"       // 选出最佳候选
	OutcomeUnresolved    OutcomeStatus = "unresolved"     // 无合法候选，保持空缺
)

// CellOutcome 单元格处置结果
type CellOutcome struct {
	Key            model.CellKey `json:"key"`
	Status         OutcomeStatus `json:"status"`
	EmployeeNumber *int64        `json:"employee_number,omitempty"`
	Score          float64       `json:"score,omitempty"`
}

// ResolveCell 单格补位
// 已补位单元格直接返回现任员工，不做重新评估；
// 未补位时在全员工总体上评分，取通过全部硬约束的最高分候选，
// 平票取员工号更小者；无合法候选则保持空缺
func (e *Engine) ResolveCell(ctx context.Context, scheduleDetailID int64, dayNum int) (*CellOutcome, error) {
	key := model.CellKey{ScheduleDetailID: scheduleDetailID, DayNum: dayNum}

	cell, ok := e.repo.FindCell(scheduleDetailID, dayNum)
	if !ok {
		return &CellOutcome{Key: key, Status: OutcomeNotFound}, nil
	}
	if !cell.IsUnfilled() {
		return &CellOutcome{
			Key:            key,
			Status:         OutcomeAlreadyFilled,
			EmployeeNumber: cell.EmployeeNumber,
		}, nil
	}

	cctx := constraint.NewContext(e.repo.WeekOf(cell))

	var best *solver.Candidate
	for _, cand := range e.rankCandidates(cell) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := &constraint.Assignment{EmployeeNumber: cand.EmployeeNumber, Cell: cell}
		if ok, _ := e.manager.CanAssign(cctx, a); ok {
			c := cand
			best = &c
			break
		}
	}

	if best == nil {
		return &CellOutcome{Key: key, Status: OutcomeUnresolved}, nil
	}
	emp := best.EmployeeNumber
	return &CellOutcome{
		Key:            key,
		Status:         OutcomeAssigned,
		EmployeeNumber: &emp,
		Score:          best.Score,
	}, nil
}

// rankCandidates 对单元格在全员工总体上评分并排序（分数降序、员工号升序）
func (e *Engine) rankCandidates(cell *model.Cell) []solver.Candidate {
	cands := make([]solver.Candidate, 0, len(e.population))
	for _, emp := range e.population {
		cands = append(cands, solver.Candidate{
			EmployeeNumber: emp,
			Score:          e.scorer.Score(e.profiles.Get(emp), cell),
		})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].EmployeeNumber < cands[j].EmployeeNumber
	})
	return cands
}

// FillResult 批量补位结果
type FillResult struct {
	Outcomes   []CellOutcome `json:"outcomes"`
	Assigned   int           `json:"assigned"`
	Unresolved int           `json:"unresolved"`
	TotalScore float64       `json:"total_score"`
	Optimal    bool          `json:"optimal"`
	Nodes      int           `json:"nodes"`
	Duration   time.Duration `json:"duration"`
	Solver     string        `json:"solver"`
}

// FillWeek 批量补位
// 对最新快照的全部未补位单元格做联合求解，最大化兼容度总分；
// 个别单元格无合法候选时留空，只有员工总体为空才整体失败
func (e *Engine) FillWeek(ctx context.Context) (*FillResult, error) {
	if len(e.population) == 0 {
		return nil, errors.ErrEmptyPopulation
	}

	unfilled := e.repo.UnfilledCells()
	m := &solver.Model{
		Context:    constraint.NewContext(e.repo.Week()),
		Manager:    e.manager,
		Cells:      unfilled,
		Candidates: make(map[model.CellKey][]solver.Candidate, len(unfilled)),
	}
	// 与已有排班状态冲突的 (员工, 单元格) 对在建模时预先剔除，缩小搜索空间；
	// 搜索过程中新叠加补位引起的冲突仍由求解器逐步校验
	for _, cell := range unfilled {
		var legal []solver.Candidate
		for _, cand := range e.rankCandidates(cell) {
			a := &constraint.Assignment{EmployeeNumber: cand.EmployeeNumber, Cell: cell}
			if ok, _ := e.manager.CanAssign(m.Context, a); ok {
				legal = append(legal, cand)
			}
		}
		m.Candidates[cell.Key()] = legal
	}
	m.NormalizeOrder()

	sol, err := e.solver.Solve(ctx, m)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "批量求解中断")
	}

	result := &FillResult{
		Outcomes:   make([]CellOutcome, 0, len(unfilled)),
		TotalScore: sol.TotalScore,
		Optimal:    sol.Optimal,
		Nodes:      sol.Nodes,
		Duration:   sol.Duration,
		Solver:     e.solver.Name(),
	}
	for _, cell := range m.Cells {
		key := cell.Key()
		if cand, ok := sol.Assigned[key]; ok {
			emp := cand.EmployeeNumber
			result.Outcomes = append(result.Outcomes, CellOutcome{
				Key: key, Status: OutcomeAssigned, EmployeeNumber: &emp, Score: cand.Score,
			})
			result.Assigned++
		} else {
			result.Outcomes = append(result.Outcomes, CellOutcome{Key: key, Status: OutcomeUnresolved})
			result.Unresolved++
		}
	}

	return result, nil
}

// ValidateExisting 校验最新快照中已补位单元格是否满足全部约束
func (e *Engine) ValidateExisting() *constraint.Result {
	return e.manager.Evaluate(constraint.NewContext(e.repo.Week()))
}

// ExplainCandidate 返回某员工对某单元格的兼容度明细
func (e *Engine) ExplainCandidate(employeeNumber int64, scheduleDetailID int64, dayNum int) (*profile.Breakdown, error) {
	cell, ok := e.repo.FindCell(scheduleDetailID, dayNum)
	if !ok {
		return nil, errors.CellNotFound(scheduleDetailID, dayNum)
	}
	b := e.scorer.Explain(e.profiles.Get(employeeNumber), cell)
	return &b, nil
}

// Repository 返回只读单元格仓储
func (e *Engine) Repository() *snapshot.Repository {
	return e.repo
}

// Profiles 返回员工画像集合
func (e *Engine) Profiles() *profile.Set {
	return e.profiles
}

// Manager 返回约束管理器
func (e *Engine) Manager() *constraint.Manager {
	return e.manager
}

// Population 返回可参与补位的员工号（升序）
func (e *Engine) Population() []int64 {
	return e.population
}

// Health 引擎健康信息
type Health struct {
	Ready           bool      `json:"ready"`
	Cells           int       `json:"cells"`
	UnfilledCells   int       `json:"unfilled_cells"`
	Employees       int       `json:"employees"`
	ProfiledWorkers int       `json:"profiled_workers"`
	Solver          string    `json:"solver"`
	BuiltAt         time.Time `json:"built_at"`
}

// Status 返回引擎健康信息
func (e *Engine) Status() Health {
	return Health{
		Ready:           e.repo.Len() > 0,
		Cells:           e.repo.Len(),
		UnfilledCells:   len(e.repo.UnfilledCells()),
		Employees:       len(e.population),
		ProfiledWorkers: e.profiles.Len(),
		Solver:          e.solver.Name(),
		BuiltAt:         e.builtAt,
	}
}
