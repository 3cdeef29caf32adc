package dilution

import (
	"fmt"
	"math"
)

// ReferenceRow 参考表中的一行：场景在示例水量下的两种用量（毫升）
type ReferenceRow struct {
	ApplicationID   string  `json:"applicationId"`
	CanonicalVolume float64 `json:"canonicalVolume"`
	CanonicalUnit   Unit    `json:"canonicalUnit"`
	DoseStock       float64 `json:"doseStock"`
	DoseRitual      float64 `json:"doseRitual"`
}

// DoseFor 按模式返回对应列的用量
func (r ReferenceRow) DoseFor(mode Mode) float64 {
	if mode == RitualSolutionOneToTen {
		return r.DoseRitual
	}
	return r.DoseStock
}

// CanonicalVolume 参考表示例水量
type CanonicalVolume struct {
	ApplicationID string
	Volume        float64
	Unit          Unit
}

// referenceRows 已发布的参考表，与 DefaultProfiles 对应
var referenceRows = []ReferenceRow{
	{ApplicationID: "house", CanonicalVolume: 1, CanonicalUnit: Liter, DoseStock: 1, DoseRitual: 10},
	{ApplicationID: "drinking", CanonicalVolume: 2, CanonicalUnit: Liter, DoseStock: 1, DoseRitual: 10},
	{ApplicationID: "hydroponics", CanonicalVolume: 10, CanonicalUnit: Liter, DoseStock: 20, DoseRitual: 200},
	{ApplicationID: "foliar", CanonicalVolume: 20, CanonicalUnit: Liter, DoseStock: 40, DoseRitual: 400},
	{ApplicationID: "livestock", CanonicalVolume: 100, CanonicalUnit: Liter, DoseStock: 100, DoseRitual: 1000},
	{ApplicationID: "agriculture", CanonicalVolume: 2500, CanonicalUnit: Liter, DoseStock: 1000, DoseRitual: 10000},
	{ApplicationID: "pond", CanonicalVolume: 1000, CanonicalUnit: Liter, DoseStock: 200, DoseRitual: 2000},
	{ApplicationID: "wastewater", CanonicalVolume: 1000, CanonicalUnit: Liter, DoseStock: 200, DoseRitual: 2000},
}

// ReferenceRows 返回已发布参考表的副本
func ReferenceRows() []ReferenceRow {
	return append([]ReferenceRow(nil), referenceRows...)
}

// CanonicalVolumes 返回已发布参考表使用的示例水量
func CanonicalVolumes() []CanonicalVolume {
	out := make([]CanonicalVolume, 0, len(referenceRows))
	for _, r := range referenceRows {
		out = append(out, CanonicalVolume{ApplicationID: r.ApplicationID, Volume: r.CanonicalVolume, Unit: r.CanonicalUnit})
	}
	return out
}

// CanonicalVolumesFor 为计算器中的每个场景取示例水量，未发布的场景使用 1 L
func CanonicalVolumesFor(c *Calculator) []CanonicalVolume {
	published := make(map[string]CanonicalVolume, len(referenceRows))
	for _, cv := range CanonicalVolumes() {
		published[cv.ApplicationID] = cv
	}
	out := make([]CanonicalVolume, 0, len(c.profiles))
	for _, p := range c.profiles {
		cv, ok := published[p.ID]
		if !ok {
			cv = CanonicalVolume{ApplicationID: p.ID, Volume: 1, Unit: Liter}
		}
		out = append(out, cv)
	}
	return out
}

// BuildReferenceTable 用计算器生成参考表
func BuildReferenceTable(c *Calculator, canon []CanonicalVolume) []ReferenceRow {
	rows := make([]ReferenceRow, 0, len(canon))
	for _, cv := range canon {
		p := c.Resolve(cv.ApplicationID)
		rows = append(rows, ReferenceRow{
			ApplicationID:   p.ID,
			CanonicalVolume: cv.Volume,
			CanonicalUnit:   cv.Unit,
			DoseStock:       Dose(p, cv.Volume, cv.Unit, UndilutedStock).DoseMilliliters,
			DoseRitual:      Dose(p, cv.Volume, cv.Unit, RitualSolutionOneToTen).DoseMilliliters,
		})
	}
	return rows
}

// Mismatch 参考表与计算结果不一致的记录
type Mismatch struct {
	ApplicationID string  `json:"applicationId"`
	Mode          Mode    `json:"concentrateMode"`
	Published     float64 `json:"published"`
	Computed      float64 `json:"computed"`
	Reason        string  `json:"reason"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s [%s]: published %v, computed %v (%s)",
		m.ApplicationID, m.Mode, m.Published, m.Computed, m.Reason)
}

const referenceTolerance = 1e-9

// VerifyReferenceTable 校验参考表与计算器一致，返回所有不一致项
func VerifyReferenceTable(c *Calculator, rows []ReferenceRow) []Mismatch {
	var out []Mismatch
	for _, r := range rows {
		p, ok := c.Lookup(r.ApplicationID)
		if !ok {
			out = append(out, Mismatch{ApplicationID: r.ApplicationID, Mode: UndilutedStock, Published: r.DoseStock, Reason: "unknown application"})
			continue
		}
		stock := Dose(p, r.CanonicalVolume, r.CanonicalUnit, UndilutedStock).DoseMilliliters
		if !closeTo(r.DoseStock, stock) {
			out = append(out, Mismatch{ApplicationID: r.ApplicationID, Mode: UndilutedStock, Published: r.DoseStock, Computed: stock, Reason: "stock dose differs from formula"})
		}
		if !closeTo(r.DoseRitual, r.DoseStock*RitualFactor) {
			out = append(out, Mismatch{ApplicationID: r.ApplicationID, Mode: RitualSolutionOneToTen, Published: r.DoseRitual, Computed: r.DoseStock * RitualFactor, Reason: "1:10 dose is not 10x stock"})
		}
	}
	return out
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= referenceTolerance*math.Max(1, math.Abs(b))
}

// VerifyPublished 校验已发布参考表中计算器已知的场景
func VerifyPublished(c *Calculator) []Mismatch {
	var rows []ReferenceRow
	for _, r := range referenceRows {
		if _, ok := c.Lookup(r.ApplicationID); ok {
			rows = append(rows, r)
		}
	}
	return VerifyReferenceTable(c, rows)
}
