// Package profile 提供员工偏好画像的构建与兼容度评分
package profile

import (
	"sort"

	"github.com/shiftfill/shiftfill/pkg/model"
)

// Profile 员工偏好画像
// 五个维度各自是一个经拉普拉斯平滑的概率分布，每个维度概率之和为 1
// 平滑保证任何分桶概率非零，历史稀少的员工不会被硬性排除
type Profile struct {
	EmployeeNumber int64 `json:"employee_number"`
	TotalShifts    int   `json:"total_shifts"` // 历史班次数，0 表示均匀画像

	Day       map[int]float64                  `json:"day"`
	TimeOfDay map[model.TimeOfDay]float64      `json:"time_of_day"`
	Duration  map[model.DurationBucket]float64 `json:"duration"`
	ShiftType map[model.ShiftType]float64      `json:"shift_type"`
	Job       map[int64]float64                `json:"job"`

	// JobFloor 历史语料之外的岗位号使用的平滑下限概率
	JobFloor float64 `json:"job_floor"`
}

// JobProb 返回岗位号的偏好概率，语料外岗位返回平滑下限
func (p *Profile) JobProb(jobNumber int64) float64 {
	if prob, ok := p.Job[jobNumber]; ok {
		return prob
	}
	return p.JobFloor
}

// Set 员工画像集合
// 构建完成后只读；未出现在历史语料中的员工按均匀画像处理
type Set struct {
	profiles    map[int64]*Profile
	uniform     *Profile
	jobUniverse []int64
	corpusSize  int
}

// Get 返回员工画像，无历史记录的员工返回均匀画像副本
func (s *Set) Get(employeeNumber int64) *Profile {
	if p, ok := s.profiles[employeeNumber]; ok {
		return p
	}
	u := *s.uniform
	u.EmployeeNumber = employeeNumber
	return &u
}

// Has 检查员工是否有基于历史的画像
func (s *Set) Has(employeeNumber int64) bool {
	_, ok := s.profiles[employeeNumber]
	return ok
}

// Employees 返回有历史画像的员工号（升序）
func (s *Set) Employees() []int64 {
	nums := make([]int64, 0, len(s.profiles))
	for n := range s.profiles {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// JobUniverse 返回历史语料中观测到的岗位号（升序）
func (s *Set) JobUniverse() []int64 {
	return s.jobUniverse
}

// CorpusSize 返回参与画像构建的历史班次数
func (s *Set) CorpusSize() int {
	return s.corpusSize
}

// Len 返回有历史画像的员工数量
func (s *Set) Len() int {
	return len(s.profiles)
}

// Builder 画像构建器
type Builder struct{}

// NewBuilder 创建画像构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// Build 从归一化的历史单元格构建画像集合
// 只统计已补位的单元格；岗位维度的取值空间为语料中观测到的全部岗位号
func (b *Builder) Build(historical []*model.Cell) *Set {
	jobSeen := make(map[int64]bool)
	byEmployee := make(map[int64][]*model.Cell)
	corpusSize := 0

	for _, c := range historical {
		if c.IsUnfilled() {
			continue
		}
		jobSeen[c.JobNumber] = true
		byEmployee[*c.EmployeeNumber] = append(byEmployee[*c.EmployeeNumber], c)
		corpusSize++
	}

	jobUniverse := make([]int64, 0, len(jobSeen))
	for j := range jobSeen {
		jobUniverse = append(jobUniverse, j)
	}
	sort.Slice(jobUniverse, func(i, j int) bool { return jobUniverse[i] < jobUniverse[j] })

	profiles := make(map[int64]*Profile, len(byEmployee))
	for emp, cells := range byEmployee {
		profiles[emp] = buildOne(emp, cells, jobUniverse)
	}

	return &Set{
		profiles:    profiles,
		uniform:     uniformProfile(jobUniverse),
		jobUniverse: jobUniverse,
		corpusSize:  corpusSize,
	}
}

// buildOne 构建单个员工的画像
// 每个维度做加一平滑：P(桶) = (观测数 + 1) / (总数 + 桶数)
func buildOne(emp int64, cells []*model.Cell, jobUniverse []int64) *Profile {
	total := len(cells)

	dayCount := make(map[int]int)
	timeCount := make(map[model.TimeOfDay]int)
	durCount := make(map[model.DurationBucket]int)
	shiftCount := make(map[model.ShiftType]int)
	jobCount := make(map[int64]int)

	for _, c := range cells {
		dayCount[c.DayNum]++
		timeCount[c.TimeOfDay()]++
		durCount[c.DurationBucket()]++
		shiftCount[c.ShiftType()]++
		jobCount[c.JobNumber]++
	}

	p := &Profile{
		EmployeeNumber: emp,
		TotalShifts:    total,
		Day:            make(map[int]float64, 7),
		TimeOfDay:      make(map[model.TimeOfDay]float64, 4),
		Duration:       make(map[model.DurationBucket]float64, 3),
		ShiftType:      make(map[model.ShiftType]float64, 2),
		Job:            make(map[int64]float64, len(jobUniverse)),
	}

	for day := 1; day <= 7; day++ {
		p.Day[day] = smoothed(dayCount[day], total, 7)
	}
	for _, tod := range model.AllTimesOfDay() {
		p.TimeOfDay[tod] = smoothed(timeCount[tod], total, 4)
	}
	for _, d := range model.AllDurationBuckets() {
		p.Duration[d] = smoothed(durCount[d], total, 3)
	}
	for _, st := range model.AllShiftTypes() {
		p.ShiftType[st] = smoothed(shiftCount[st], total, 2)
	}

	jobBuckets := len(jobUniverse)
	if jobBuckets == 0 {
		jobBuckets = 1
	}
	for _, j := range jobUniverse {
		p.Job[j] = smoothed(jobCount[j], total, jobBuckets)
	}
	p.JobFloor = smoothed(0, total, jobBuckets)

	return p
}

// uniformProfile 构建零历史员工的均匀画像
func uniformProfile(jobUniverse []int64) *Profile {
	return buildOne(0, nil, jobUniverse)
}

// smoothed 加一平滑后的分桶概率
func smoothed(count, total, buckets int) float64 {
	return float64(count+1) / float64(total+buckets)
}
