// Package dilution 计算离子矿物浓缩液的稀释用量
package dilution

import (
	"math"

	"go.uber.org/zap"
)

// DropsPerMl 每毫升浓缩液的滴数（按滴管规格固定）
const DropsPerMl = 20

// DoseRequest 单次计算的输入
type DoseRequest struct {
	Volume        float64 `json:"volume"`
	Unit          Unit    `json:"unit"`
	ApplicationID string  `json:"applicationId"`
	Mode          Mode    `json:"concentrateMode"`
}

// DoseResult 计算结果
type DoseResult struct {
	DoseMilliliters float64 `json:"doseMilliliters"`
	DoseDrops       float64 `json:"doseDrops"`
}

// Calculator 基于注入的场景列表计算用量，创建后只读
type Calculator struct {
	profiles []ApplicationProfile
	index    map[string]int
	logger   *zap.Logger
}

// NewCalculator 创建计算器，第一项场景作为未知 id 的默认场景
func NewCalculator(profiles []ApplicationProfile, logger *zap.Logger) (*Calculator, error) {
	if err := ValidateProfiles(profiles); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{
		profiles: append([]ApplicationProfile(nil), profiles...),
		index:    make(map[string]int, len(profiles)),
		logger:   logger,
	}
	for i, p := range c.profiles {
		c.index[p.ID] = i
	}
	return c, nil
}

// Profiles 返回场景列表的副本
func (c *Calculator) Profiles() []ApplicationProfile {
	return append([]ApplicationProfile(nil), c.profiles...)
}

// Default 返回默认场景
func (c *Calculator) Default() ApplicationProfile {
	return c.profiles[0]
}

// Lookup 按 id 查找场景
func (c *Calculator) Lookup(id string) (ApplicationProfile, bool) {
	i, ok := c.index[id]
	if !ok {
		return ApplicationProfile{}, false
	}
	return c.profiles[i], true
}

// Resolve 按 id 查找场景，id 为空时返回默认场景，未知 id 记录告警后回退到默认场景
func (c *Calculator) Resolve(id string) ApplicationProfile {
	if id == "" {
		return c.Default()
	}
	if p, ok := c.Lookup(id); ok {
		return p
	}
	fallback := c.Default()
	c.logger.Warn("unknown application id, using default profile",
		zap.String("application_id", id),
		zap.String("fallback_id", fallback.ID))
	return fallback
}

// Compute 计算所需浓缩液体积和滴数，对任何输入都有定义
func (c *Calculator) Compute(req DoseRequest) DoseResult {
	return Dose(c.Resolve(req.ApplicationID), req.Volume, req.Unit, req.Mode)
}

// Dose 按单个场景计算用量
func Dose(profile ApplicationProfile, volume float64, unit Unit, mode Mode) DoseResult {
	liters := ToLiters(volume, unit)
	if liters == 0 || !(profile.DilutionRatio > 0) {
		return DoseResult{}
	}
	// 比例表示每 1000 mL 水所需的原液毫升数
	base := liters * 1000 / profile.DilutionRatio
	ml := base * mode.multiplier()
	drops := math.Round(ml * DropsPerMl)
	// 比例极小时仍可能溢出
	if math.IsInf(drops, 0) || math.IsNaN(drops) {
		return DoseResult{}
	}
	return DoseResult{
		DoseMilliliters: ml,
		DoseDrops:       drops,
	}
}
