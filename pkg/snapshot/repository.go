// Package snapshot 提供排班快照的只读单元格仓储
package snapshot

import (
	"github.com/shiftfill/shiftfill/pkg/model"
)

// Repository 单元格仓储
// 对一个快照内的原始行做归一化：同一 (ScheduleDetailID, DayNum) 的多条子行
// 只保留首见的代表行（稳定策略，同一输入多次构建结果一致）
// 构建完成后只读，可被多个请求并发访问
type Repository struct {
	cells      map[model.CellKey]*model.Cell
	order      []model.CellKey // 首见顺序
	week       *model.ScheduleWeek
	duplicates int
}

// New 从原始记录构建仓储
// 记录格式错误（时间无法解析、DayNum 越界）视为硬错误
func New(records []model.CellRecord) (*Repository, error) {
	r := &Repository{
		cells: make(map[model.CellKey]*model.Cell, len(records)),
	}

	snapshotDate := ""
	for _, rec := range records {
		key := rec.Key()
		if _, exists := r.cells[key]; exists {
			r.duplicates++
			continue
		}

		cell, err := model.NewCell(rec)
		if err != nil {
			return nil, err
		}
		r.cells[key] = cell
		r.order = append(r.order, key)
		if snapshotDate == "" {
			snapshotDate = cell.SnapshotDate
		}
	}

	r.week = &model.ScheduleWeek{
		SnapshotDate: snapshotDate,
		Cells:        r.Cells(),
	}
	return r, nil
}

// FindCell 按标识查找单元格
func (r *Repository) FindCell(scheduleDetailID int64, dayNum int) (*model.Cell, bool) {
	c, ok := r.cells[model.CellKey{ScheduleDetailID: scheduleDetailID, DayNum: dayNum}]
	return c, ok
}

// IsUnfilled 检查单元格在本快照中是否未补位
func (r *Repository) IsUnfilled(c *model.Cell) bool {
	return c.IsUnfilled()
}

// WeekOf 返回单元格所属的排班周
// 快照内全部单元格属于同一个周五到周四的固定排班周
func (r *Repository) WeekOf(c *model.Cell) *model.ScheduleWeek {
	return r.week
}

// Week 返回快照对应的排班周
func (r *Repository) Week() *model.ScheduleWeek {
	return r.week
}

// Cells 按首见顺序返回全部单元格
func (r *Repository) Cells() []*model.Cell {
	cells := make([]*model.Cell, 0, len(r.order))
	for _, key := range r.order {
		cells = append(cells, r.cells[key])
	}
	return cells
}

// UnfilledCells 返回全部未补位单元格（首见顺序）
func (r *Repository) UnfilledCells() []*model.Cell {
	var cells []*model.Cell
	for _, key := range r.order {
		if c := r.cells[key]; c.IsUnfilled() {
			cells = append(cells, c)
		}
	}
	return cells
}

// FilledCells 返回全部已补位单元格（首见顺序）
func (r *Repository) FilledCells() []*model.Cell {
	var cells []*model.Cell
	for _, key := range r.order {
		if c := r.cells[key]; !c.IsUnfilled() {
			cells = append(cells, c)
		}
	}
	return cells
}

// DuplicateCount 返回归并掉的重复子行数量（由调用方记录警告日志）
func (r *Repository) DuplicateCount() int {
	return r.duplicates
}

// Len 返回归一化后的单元格数量
func (r *Repository) Len() int {
	return len(r.cells)
}

// CollapseHistorical 归一化多个历史快照的原始记录
// 历史数据在每个快照日期内去重：同一 (SnapshotDate, ScheduleDetailID, DayNum)
// 只保留首见行。返回归一化单元格与被归并的行数
func CollapseHistorical(records []model.CellRecord) ([]*model.Cell, int, error) {
	type histKey struct {
		date string
		key  model.CellKey
	}

	seen := make(map[histKey]bool, len(records))
	var cells []*model.Cell
	duplicates := 0

	for _, rec := range records {
		hk := histKey{date: rec.SnapshotDate, key: rec.Key()}
		if seen[hk] {
			duplicates++
			continue
		}
		seen[hk] = true

		cell, err := model.NewCell(rec)
		if err != nil {
			return nil, duplicates, err
		}
		cells = append(cells, cell)
	}

	return cells, duplicates, nil
}
