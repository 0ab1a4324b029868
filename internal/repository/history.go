// Package repository 提供历史排班数据的数据库访问
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shiftfill/shiftfill/internal/database"
	"github.com/shiftfill/shiftfill/pkg/model"
)

// HistoryRepository 历史排班数据仓储
// 表 schedule_cells 每行对应一个快照日期下的一条原始子行
type HistoryRepository struct {
	db *database.DB
}

// NewHistoryRepository 创建历史排班数据仓储
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const selectColumns = `
	schedule_detail_id, day_num, cell_info_id, job_post_id, job_number,
	employee_number, start_time, end_time, to_char(snapshot_date, 'YYYY-MM-DD')
`

// LatestSnapshotDate 返回数据集中最晚的快照日期（YYYY-MM-DD）
func (r *HistoryRepository) LatestSnapshotDate(ctx context.Context) (string, error) {
	var date sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT to_char(MAX(snapshot_date), 'YYYY-MM-DD') FROM schedule_cells`,
	).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("查询最晚快照日期失败: %w", err)
	}
	if !date.Valid {
		return "", fmt.Errorf("数据集中没有快照记录")
	}
	return date.String, nil
}

// LoadSnapshot 加载指定快照日期的全部原始记录
func (r *HistoryRepository) LoadSnapshot(ctx context.Context, snapshotDate string) ([]model.CellRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+`
		 FROM schedule_cells
		 WHERE snapshot_date = $1::date
		 ORDER BY schedule_detail_id, day_num, cell_info_id`,
		snapshotDate,
	)
	if err != nil {
		return nil, fmt.Errorf("查询快照记录失败: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// LoadHistoricalBefore 加载早于指定快照日期的全部历史记录
func (r *HistoryRepository) LoadHistoricalBefore(ctx context.Context, snapshotDate string) ([]model.CellRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+`
		 FROM schedule_cells
		 WHERE snapshot_date < $1::date
		 ORDER BY snapshot_date, schedule_detail_id, day_num, cell_info_id`,
		snapshotDate,
	)
	if err != nil {
		return nil, fmt.Errorf("查询历史记录失败: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords 扫描查询结果为原始记录
func scanRecords(rows *sql.Rows) ([]model.CellRecord, error) {
	var records []model.CellRecord
	for rows.Next() {
		var rec model.CellRecord
		var emp sql.NullInt64
		if err := rows.Scan(
			&rec.ScheduleDetailID, &rec.DayNum, &rec.CellInfoID, &rec.JobPostID,
			&rec.JobNumber, &emp, &rec.StartTime, &rec.EndTime, &rec.SnapshotDate,
		); err != nil {
			return nil, fmt.Errorf("扫描记录失败: %w", err)
		}
		if emp.Valid {
			v := emp.Int64
			rec.EmployeeNumber = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历记录失败: %w", err)
	}
	return records, nil
}
