package profile

import (
	"math"
	"testing"

	"github.com/shiftfill/shiftfill/pkg/model"
)

func histCell(t *testing.T, emp int64, day int, job int64, start, end string) *model.Cell {
	t.Helper()
	e := emp
	c, err := model.NewCell(model.CellRecord{
		ScheduleDetailID: 100,
		DayNum:           day,
		JobNumber:        job,
		EmployeeNumber:   &e,
		StartTime:        start,
		EndTime:          end,
		SnapshotDate:     "2024-09-10",
	})
	if err != nil {
		t.Fatalf("构造历史单元格失败: %v", err)
	}
	return c
}

func sumOver[K comparable](m map[K]float64) float64 {
	s := 0.0
	for _, v := range m {
		s += v
	}
	return s
}

func TestBuildDistributionsSumToOne(t *testing.T) {
	cells := []*model.Cell{
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
		histCell(t, 7, 3, 55, "22:00:00", "06:00:00"),
		histCell(t, 8, 5, 55, "12:00:00", "18:30:00"),
	}

	set := NewBuilder().Build(cells)
	if set.Len() != 2 {
		t.Fatalf("员工画像数 = %d, want 2", set.Len())
	}

	p := set.Get(7)
	const eps = 1e-9
	if math.Abs(sumOver(p.Day)-1) > eps {
		t.Errorf("星期维度概率之和 = %v", sumOver(p.Day))
	}
	if math.Abs(sumOver(p.TimeOfDay)-1) > eps {
		t.Errorf("时段维度概率之和 = %v", sumOver(p.TimeOfDay))
	}
	if math.Abs(sumOver(p.Duration)-1) > eps {
		t.Errorf("时长维度概率之和 = %v", sumOver(p.Duration))
	}
	if math.Abs(sumOver(p.ShiftType)-1) > eps {
		t.Errorf("班次类型维度概率之和 = %v", sumOver(p.ShiftType))
	}
	if math.Abs(sumOver(p.Job)-1) > eps {
		t.Errorf("岗位维度概率之和 = %v", sumOver(p.Job))
	}
}

func TestBuildSmoothingNoZeroBuckets(t *testing.T) {
	// 员工只在周一（DayNum=4）上过班，其余分桶仍需非零概率
	cells := []*model.Cell{
		histCell(t, 9, 4, 42, "08:00:00", "16:00:00"),
	}
	set := NewBuilder().Build(cells)
	p := set.Get(9)

	for day := 1; day <= 7; day++ {
		if p.Day[day] <= 0 {
			t.Errorf("Day[%d] = %v, 平滑后不应为零", day, p.Day[day])
		}
	}
	if p.Day[4] <= p.Day[1] {
		t.Error("观测过的分桶概率应高于未观测分桶")
	}
	// 加一平滑：观测 1 次 / 总数 1，P = 2/8，其余 1/8
	if math.Abs(p.Day[4]-0.25) > 1e-9 {
		t.Errorf("Day[4] = %v, want 0.25", p.Day[4])
	}
}

func TestUniformFallback(t *testing.T) {
	cells := []*model.Cell{
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
		histCell(t, 7, 2, 55, "08:00:00", "16:00:00"),
	}
	set := NewBuilder().Build(cells)

	if set.Has(12345) {
		t.Fatal("无历史员工不应有画像")
	}
	u := set.Get(12345)
	if u.EmployeeNumber != 12345 {
		t.Errorf("均匀画像员工号 = %d", u.EmployeeNumber)
	}
	if u.TotalShifts != 0 {
		t.Errorf("均匀画像历史班次数 = %d", u.TotalShifts)
	}

	const eps = 1e-9
	for day := 1; day <= 7; day++ {
		if math.Abs(u.Day[day]-1.0/7) > eps {
			t.Errorf("均匀画像 Day[%d] = %v, want 1/7", day, u.Day[day])
		}
	}
	for _, tod := range model.AllTimesOfDay() {
		if math.Abs(u.TimeOfDay[tod]-0.25) > eps {
			t.Errorf("均匀画像 TimeOfDay[%s] = %v, want 0.25", tod, u.TimeOfDay[tod])
		}
	}
	// 语料有两个岗位，均匀画像每个岗位 1/2
	if math.Abs(u.Job[42]-0.5) > eps || math.Abs(u.Job[55]-0.5) > eps {
		t.Error("均匀画像岗位概率应为 1/2")
	}
}

func TestJobFloorForUnseenJob(t *testing.T) {
	cells := []*model.Cell{
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
	}
	set := NewBuilder().Build(cells)
	p := set.Get(7)

	unseen := p.JobProb(999)
	if unseen <= 0 {
		t.Error("语料外岗位概率不应为零")
	}
	if unseen >= p.JobProb(42) {
		t.Error("语料外岗位概率应低于观测过的岗位")
	}
}

func TestScoreWithinUnitInterval(t *testing.T) {
	cells := []*model.Cell{
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
		histCell(t, 7, 1, 42, "09:00:00", "17:00:00"),
		histCell(t, 7, 2, 55, "22:00:00", "06:00:00"),
	}
	set := NewBuilder().Build(cells)
	scorer := NewScorer()

	target := histCell(t, 0, 1, 42, "08:00:00", "16:00:00")
	score := scorer.Score(set.Get(7), target)
	if score <= 0 || score >= 1 {
		t.Errorf("兼容度 = %v, 应落在 (0, 1)", score)
	}

	// 与历史高度吻合的单元格得分应高于完全不吻合的
	mismatch := histCell(t, 0, 5, 999, "12:00:00", "23:30:00")
	if scorer.Score(set.Get(7), mismatch) >= score {
		t.Error("不吻合单元格的得分不应高于吻合单元格")
	}
}

func TestExplainMatchesScore(t *testing.T) {
	cells := []*model.Cell{
		histCell(t, 7, 1, 42, "08:00:00", "16:00:00"),
	}
	set := NewBuilder().Build(cells)
	scorer := NewScorer()
	target := histCell(t, 0, 1, 42, "08:00:00", "16:00:00")

	p := set.Get(7)
	b := scorer.Explain(p, target)
	if math.Abs(b.Total-scorer.Score(p, target)) > 1e-12 {
		t.Error("明细总分与 Score 不一致")
	}
}
