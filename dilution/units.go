package dilution

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LitersPerGallon 1 美制加仑对应的升数
const LitersPerGallon = 3.78541

// MaxLiters 可计算的最大水量，超出视为无效输入
const MaxLiters = 1e12

// Unit 水量单位
type Unit int

const (
	Liter Unit = iota
	Gallon
)

// unitDef 单位定义，toLiters 为换算为升的系数
type unitDef struct {
	symbol   string
	toLiters float64
}

var unitTable = map[Unit]unitDef{
	Liter:  {symbol: "L", toLiters: 1},
	Gallon: {symbol: "Gal", toLiters: LitersPerGallon},
}

var unitAliases = map[string]Unit{
	"l":       Liter,
	"liter":   Liter,
	"liters":  Liter,
	"litre":   Liter,
	"litres":  Liter,
	"gal":     Gallon,
	"gallon":  Gallon,
	"gallons": Gallon,
}

// String 返回单位符号
func (u Unit) String() string {
	if d, ok := unitTable[u]; ok {
		return d.symbol
	}
	return unitTable[Liter].symbol
}

// ParseUnit 解析单位字符串
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// ToLiters 将水量换算为升，非有限值、非正数或超过 MaxLiters 时返回 0
func ToLiters(volume float64, unit Unit) float64 {
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume <= 0 {
		return 0
	}
	d, ok := unitTable[unit]
	if !ok {
		d = unitTable[Liter]
	}
	liters := volume * d.toLiters
	if liters > MaxLiters {
		return 0
	}
	return liters
}

// ParseVolume 解析用户输入的水量，无法解析时返回 0
func ParseVolume(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// 没有小数点时把逗号当作小数分隔符
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// MarshalText 以单位符号序列化
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText 解析单位符号
func (u *Unit) UnmarshalText(b []byte) error {
	parsed, ok := ParseUnit(string(b))
	if !ok {
		return fmt.Errorf("dilution: unknown unit %q", string(b))
	}
	*u = parsed
	return nil
}

// Volume 接受数字或字符串的水量输入，无效输入解析为 0
type Volume float64

// UnmarshalJSON 解析水量，不返回错误
func (v *Volume) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if s == "null" {
		s = ""
	}
	*v = Volume(ParseVolume(s))
	return nil
}
