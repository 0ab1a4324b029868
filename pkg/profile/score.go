package profile

import (
	"github.com/shiftfill/shiftfill/pkg/model"
)

// Scorer 兼容度评分器
// 分数为五个维度概率的加权凸组合，权重总和为 1，因此分数落在 (0, 1) 内
type Scorer struct{}

// NewScorer 创建评分器
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score 计算员工画像与单元格的兼容度
func (s *Scorer) Score(p *Profile, c *model.Cell) float64 {
	return model.WeightDay*p.Day[c.DayNum] +
		model.WeightTimeOfDay*p.TimeOfDay[c.TimeOfDay()] +
		model.WeightJob*p.JobProb(c.JobNumber) +
		model.WeightDuration*p.Duration[c.DurationBucket()] +
		model.WeightShiftType*p.ShiftType[c.ShiftType()]
}

// Breakdown 单维度得分明细（用于解释接口）
type Breakdown struct {
	Day       float64 `json:"day"`
	TimeOfDay float64 `json:"time_of_day"`
	Job       float64 `json:"job"`
	Duration  float64 `json:"duration"`
	ShiftType float64 `json:"shift_type"`
	Total     float64 `json:"total"`
}

// Explain 返回各维度加权后的得分明细
func (s *Scorer) Explain(p *Profile, c *model.Cell) Breakdown {
	b := Breakdown{
		Day:       model.WeightDay * p.Day[c.DayNum],
		TimeOfDay: model.WeightTimeOfDay * p.TimeOfDay[c.TimeOfDay()],
		Job:       model.WeightJob * p.JobProb(c.JobNumber),
		Duration:  model.WeightDuration * p.Duration[c.DurationBucket()],
		ShiftType: model.WeightShiftType * p.ShiftType[c.ShiftType()],
	}
	b.Total = b.Day + b.TimeOfDay + b.Job + b.Duration + b.ShiftType
	return b
}
