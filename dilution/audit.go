package dilution

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CopyFinding 宣传文案中无法由稀释比例推导的数字
type CopyFinding struct {
	ApplicationID string  `json:"applicationId"`
	Mode          Mode    `json:"concentrateMode"`
	Stated        float64 `json:"stated"`
	Expected      float64 `json:"expected"`
	Copy          string  `json:"copy"`
}

func (f CopyFinding) String() string {
	return fmt.Sprintf("%s [%s]: copy says %s times, ratio implies %s times",
		f.ApplicationID, f.Mode, FormatNumber(f.Stated, 2), FormatNumber(f.Expected, 2))
}

// 例如 "5,000 times (Stock)" 或 "500 times (1:10)"
var timesPattern = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:times|x)\s*\(\s*(stock|undiluted|1:10|ritual)\s*\)`)

// AuditCopy 检查场景文案中的稀释倍数，原液倍数应等于比例，1:10 倍数应为比例的十分之一
func AuditCopy(profiles []ApplicationProfile) []CopyFinding {
	var out []CopyFinding
	for _, p := range profiles {
		for _, m := range timesPattern.FindAllStringSubmatch(p.DilutionCopy, -1) {
			stated, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			mode, _ := ParseMode(m[2])
			expected := p.DilutionRatio
			if mode == RitualSolutionOneToTen {
				expected = p.DilutionRatio / RitualFactor
			}
			if !closeTo(stated, expected) {
				out = append(out, CopyFinding{
					ApplicationID: p.ID,
					Mode:          mode,
					Stated:        stated,
					Expected:      expected,
					Copy:          p.DilutionCopy,
				})
			}
		}
	}
	return out
}
