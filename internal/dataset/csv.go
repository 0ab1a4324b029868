// Package dataset 提供历史排班数据集的文件加载与切分
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shiftfill/shiftfill/pkg/logger"
	"github.com/shiftfill/shiftfill/pkg/model"
)

// CSV 列名（与历史数据集的导出格式一致）
const (
	colDate           = "date"
	colScheduleDetail = "ScheduleDetailID"
	colDayNum         = "DayNum"
	colCellInfo       = "CellInfoID"
	colJobPost        = "JobPostID"
	colJobNumber      = "JobNumber"
	colEmployee       = "EmployeeNumber"
	colStartTime      = "ShiftStartTime"
	colEndTime        = "ShiftEndTime"
)

// Load 从 CSV 文件加载原始记录
// 日期列为 M/D/YYYY 格式，统一归一化为 YYYY-MM-DD；
// 员工号列允许为空（未补位）或带小数点的数值串
func Load(path string) ([]model.CellRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开数据集文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colScheduleDetail, colDayNum, colJobNumber, colEmployee, colStartTime, colEndTime} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("数据集缺少列 %q", required)
		}
	}

	var records []model.CellRecord
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}
		line++

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("解析第 %d 行失败: %w", line, err)
		}
		records = append(records, rec)
	}

	logger.Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("数据集加载完成")
	return records, nil
}

// parseRow 解析单行记录
func parseRow(row []string, idx map[string]int) (model.CellRecord, error) {
	var rec model.CellRecord

	date, err := normalizeDate(field(row, idx, colDate))
	if err != nil {
		return rec, err
	}
	rec.SnapshotDate = date

	if rec.ScheduleDetailID, err = parseInt64(field(row, idx, colScheduleDetail)); err != nil {
		return rec, fmt.Errorf("ScheduleDetailID: %w", err)
	}
	dayNum, err := parseInt64(field(row, idx, colDayNum))
	if err != nil {
		return rec, fmt.Errorf("DayNum: %w", err)
	}
	rec.DayNum = int(dayNum)

	if rec.JobNumber, err = parseInt64(field(row, idx, colJobNumber)); err != nil {
		return rec, fmt.Errorf("JobNumber: %w", err)
	}

	// 可选列
	if v := field(row, idx, colCellInfo); v != "" {
		if rec.CellInfoID, err = parseInt64(v); err != nil {
			return rec, fmt.Errorf("CellInfoID: %w", err)
		}
	}
	if v := field(row, idx, colJobPost); v != "" {
		if rec.JobPostID, err = parseInt64(v); err != nil {
			return rec, fmt.Errorf("JobPostID: %w", err)
		}
	}

	if v := field(row, idx, colEmployee); v != "" {
		emp, err := parseInt64(v)
		if err != nil {
			return rec, fmt.Errorf("EmployeeNumber: %w", err)
		}
		rec.EmployeeNumber = &emp
	}

	rec.StartTime = field(row, idx, colStartTime)
	rec.EndTime = field(row, idx, colEndTime)
	return rec, nil
}

// field 读取某列取值，列缺失或越界返回空串
func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt64 解析整数，兼容 "67890.0" 形式的数值串
func parseInt64(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q", s)
	}
	return int64(f), nil
}

// normalizeDate 归一化日期为 YYYY-MM-DD，接受 M/D/YYYY 与 YYYY-MM-DD
func normalizeDate(s string) (string, error) {
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("无法解析日期 %q", s)
}

// SplitHistoricalAndLatest 按目标快照日期切分数据集
// targetDate 留空时取数据集中最晚的快照日期；历史部分为严格早于
// 目标日期的记录，最新快照为恰好等于目标日期的记录
func SplitHistoricalAndLatest(records []model.CellRecord, targetDate string) (historical, latest []model.CellRecord, date string, err error) {
	if len(records) == 0 {
		return nil, nil, "", fmt.Errorf("数据集为空")
	}

	date = targetDate
	if date == "" {
		for _, rec := range records {
			if rec.SnapshotDate > date {
				date = rec.SnapshotDate
			}
		}
	}

	for _, rec := range records {
		switch {
		case rec.SnapshotDate < date:
			historical = append(historical, rec)
		case rec.SnapshotDate == date:
			latest = append(latest, rec)
		}
	}

	if len(latest) == 0 {
		return nil, nil, "", fmt.Errorf("目标快照日期 %s 没有记录", date)
	}
	return historical, latest, date, nil
}
