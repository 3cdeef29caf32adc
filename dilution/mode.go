package dilution

import (
	"fmt"
	"strings"
)

// RitualFactor 1:10 溶液相对原液的稀释倍数
const RitualFactor = 10

// Mode 浓缩液形态
type Mode int

const (
	UndilutedStock Mode = iota
	RitualSolutionOneToTen
)

var modeAliases = map[string]Mode{
	"stock":     UndilutedStock,
	"undiluted": UndilutedStock,
	"1:10":      RitualSolutionOneToTen,
	"ritual":    RitualSolutionOneToTen,
}

// String 返回接口使用的模式值
func (m Mode) String() string {
	if m == RitualSolutionOneToTen {
		return "1:10"
	}
	return "Stock"
}

// Label 返回展示用的模式名称
func (m Mode) Label() string {
	if m == RitualSolutionOneToTen {
		return "1:10 Ritual Solution"
	}
	return "Undiluted Stock"
}

// Toggle 切换到另一种模式
func (m Mode) Toggle() Mode {
	if m == RitualSolutionOneToTen {
		return UndilutedStock
	}
	return RitualSolutionOneToTen
}

// multiplier 同等浓度下所需浓缩液体积的倍数
func (m Mode) multiplier() float64 {
	if m == RitualSolutionOneToTen {
		return RitualFactor
	}
	return 1
}

// ParseMode 解析模式字符串
func ParseMode(s string) (Mode, bool) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// MarshalText 以接口模式值序列化
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 解析模式值
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, ok := ParseMode(string(b))
	if !ok {
		return fmt.Errorf("dilution: unknown concentrate mode %q", string(b))
	}
	*m = parsed
	return nil
}
