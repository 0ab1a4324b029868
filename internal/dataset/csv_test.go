package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `date,ScheduleDetailID,DayNum,CellInfoID,JobPostID,JobNumber,EmployeeNumber,ShiftStartTime,ShiftEndTime
9/24/2024,1954945,5,10,500,42,3472779.0,08:00:00,16:00:00
10/1/2024,1954945,5,11,500,42,3472779.0,08:00:00,16:00:00
10/8/2024,8849241,1,12,501,99,67890,22:00:00,06:00:00
10/8/2024,1954945,5,13,500,42,,08:00:00,16:00:00
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入样例文件失败: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	records, err := Load(writeSample(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("记录数 = %d, want 4", len(records))
	}

	first := records[0]
	if first.SnapshotDate != "2024-09-24" {
		t.Errorf("日期归一化 = %s, want 2024-09-24", first.SnapshotDate)
	}
	if first.ScheduleDetailID != 1954945 || first.DayNum != 5 {
		t.Errorf("标识解析错误: %+v", first)
	}
	// 带小数点的员工号
	if first.EmployeeNumber == nil || *first.EmployeeNumber != 3472779 {
		t.Error("员工号 3472779.0 应解析为 3472779")
	}

	// 空员工号表示未补位
	if records[3].EmployeeNumber != nil {
		t.Error("空员工号应解析为 nil")
	}
}

func TestLoadMissingColumn(t *testing.T) {
	bad := "date,ScheduleDetailID,DayNum\n10/8/2024,1,1\n"
	if _, err := Load(writeSample(t, bad)); err == nil {
		t.Error("缺少必需列应返回错误")
	}
}

func TestLoadBadDate(t *testing.T) {
	bad := `date,ScheduleDetailID,DayNum,JobNumber,EmployeeNumber,ShiftStartTime,ShiftEndTime
2024/10/08,1,1,42,,08:00:00,16:00:00
`
	if _, err := Load(writeSample(t, bad)); err == nil {
		t.Error("无法解析的日期应返回错误")
	}
}

func TestSplitHistoricalAndLatest(t *testing.T) {
	records, err := Load(writeSample(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	historical, latest, date, err := SplitHistoricalAndLatest(records, "")
	if err != nil {
		t.Fatalf("SplitHistoricalAndLatest() error = %v", err)
	}
	if date != "2024-10-08" {
		t.Errorf("最晚快照日期 = %s", date)
	}
	if len(historical) != 2 {
		t.Errorf("历史记录数 = %d, want 2", len(historical))
	}
	if len(latest) != 2 {
		t.Errorf("最新快照记录数 = %d, want 2", len(latest))
	}
}

func TestSplitExplicitTargetDate(t *testing.T) {
	records, _ := Load(writeSample(t, sampleCSV))

	historical, latest, _, err := SplitHistoricalAndLatest(records, "2024-10-01")
	if err != nil {
		t.Fatalf("SplitHistoricalAndLatest() error = %v", err)
	}
	if len(historical) != 1 || len(latest) != 1 {
		t.Errorf("historical=%d latest=%d, want 1/1", len(historical), len(latest))
	}
}

func TestSplitNoTargetRecords(t *testing.T) {
	records, _ := Load(writeSample(t, sampleCSV))

	if _, _, _, err := SplitHistoricalAndLatest(records, "2030-01-01"); err == nil {
		t.Error("目标日期无记录应返回错误")
	}
}
