// Package model 定义补位引擎的核心数据模型
package model

// ShiftType 班次类型分桶（是否跨午夜）
type ShiftType string

const (
	ShiftRegular   ShiftType = "regular"
	ShiftOvernight ShiftType = "overnight"
)

// ShiftTypeOf 按是否跨午夜返回班次类型
func ShiftTypeOf(overnight bool) ShiftType {
	if overnight {
		return ShiftOvernight
	}
	return ShiftRegular
}

// AllShiftTypes 返回全部班次类型（固定顺序）
func AllShiftTypes() []ShiftType {
	return []ShiftType{ShiftRegular, ShiftOvernight}
}

// ShiftType 返回单元格的班次类型分桶
func (c *Cell) ShiftType() ShiftType {
	return ShiftTypeOf(c.Overnight)
}
