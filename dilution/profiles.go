package dilution

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoProfiles       = errors.New("dilution: no application profiles")
	ErrInvalidRatio     = errors.New("dilution: dilution ratio must be positive")
	ErrDuplicateProfile = errors.New("dilution: duplicate application id")
	ErrMissingProfileID = errors.New("dilution: application id is empty")
)

// ApplicationProfile 一种用水场景及其稀释比例（1 份浓缩液 : DilutionRatio 份水）
type ApplicationProfile struct {
	ID            string  `json:"id" yaml:"id"`
	Label         string  `json:"label" yaml:"label"`
	Category      string  `json:"category" yaml:"category"`
	DilutionRatio float64 `json:"dilutionRatio" yaml:"dilution_ratio"`

	// 以下字段仅用于展示
	Icon         string `json:"icon,omitempty" yaml:"icon"`
	Color        string `json:"color,omitempty" yaml:"color"`
	HowToUse     string `json:"howToUse,omitempty" yaml:"how_to_use"`
	Remarks      string `json:"remarks,omitempty" yaml:"remarks"`
	DilutionCopy string `json:"dilutionCopy,omitempty" yaml:"dilution_copy"`
}

// RatioLabel 返回 "1:N" 形式的比例
func (p ApplicationProfile) RatioLabel() string {
	return "1:" + FormatNumber(p.DilutionRatio, 2)
}

// ValidateProfiles 校验场景列表
func ValidateProfiles(profiles []ApplicationProfile) error {
	if len(profiles) == 0 {
		return ErrNoProfiles
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.ID == "" {
			return ErrMissingProfileID
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateProfile, p.ID)
		}
		seen[p.ID] = true
		r := p.DilutionRatio
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fmt.Errorf("%w: %s has %v", ErrInvalidRatio, p.ID, r)
		}
	}
	return nil
}

// DefaultProfilesVersion 内置场景表的版本
const DefaultProfilesVersion = "1"

// DefaultProfiles 内置的场景比例表，第一项为默认场景
func DefaultProfiles() []ApplicationProfile {
	return []ApplicationProfile{
		{
			ID:            "house",
			Label:         "Houseplants & Home Garden",
			Category:      "garden",
			DilutionRatio: 1000,
			Icon:          "leaf",
			Color:         "#4caf50",
			HowToUse:      "Add to the watering can before each watering.",
			Remarks:       "Suitable for potted plants, balcony boxes and seedlings.",
			DilutionCopy:  "Dilute 1,000 times (Stock) or 100 times (1:10).",
		},
		{
			ID:            "drinking",
			Label:         "Drinking Water",
			Category:      "household",
			DilutionRatio: 2000,
			Icon:          "glass",
			Color:         "#03a9f4",
			HowToUse:      "Add to a jug of filtered water and let it stand for one minute.",
			Remarks:       "Daily mineral top-up for 2 L of water.",
			DilutionCopy:  "Dilute 2,000 times (Stock) or 200 times (1:10).",
		},
		{
			ID:            "hydroponics",
			Label:         "Hydroponics",
			Category:      "garden",
			DilutionRatio: 500,
			Icon:          "sprout",
			Color:         "#8bc34a",
			HowToUse:      "Mix into the reservoir after nutrient dosing.",
			Remarks:       "Recheck EC after adding.",
			DilutionCopy:  "Dilute 500 times (Stock) or 50 times (1:10).",
		},
		{
			ID:            "foliar",
			Label:         "Foliar Spray",
			Category:      "garden",
			DilutionRatio: 500,
			Icon:          "spray",
			Color:         "#009688",
			HowToUse:      "Spray leaves early morning or late afternoon.",
			Remarks:       "Do not spray in direct midday sun.",
			DilutionCopy:  "Dilute 500 times (Stock) or 50 times (1:10).",
		},
		{
			ID:            "livestock",
			Label:         "Livestock Drinking Water",
			Category:      "farm",
			DilutionRatio: 1000,
			Icon:          "cow",
			Color:         "#795548",
			HowToUse:      "Add to the trough or the header tank of the drinking line.",
			Remarks:       "Refresh troughs daily.",
			DilutionCopy:  "Dilute 1,000 times (Stock) or 100 times (1:10).",
		},
		{
			ID:            "agriculture",
			Label:         "Agriculture",
			Category:      "farm",
			DilutionRatio: 2500,
			Icon:          "tractor",
			Color:         "#ff9800",
			HowToUse:      "Inject into the irrigation line or mix into the spray tank.",
			Remarks:       "For field crops, orchards and greenhouses.",
			DilutionCopy:  "Dilute 2,500 times (Stock) or 250 times (1:10).",
		},
		{
			ID:            "pond",
			Label:         "Ponds & Aquaculture",
			Category:      "water",
			DilutionRatio: 5000,
			Icon:          "fish",
			Color:         "#3f51b5",
			HowToUse:      "Pour slowly near the pump outlet.",
			Remarks:       "Dose in stages for stocked ponds.",
			DilutionCopy:  "Dilute 5,000 times (Stock) or 500 times (1:10).",
		},
		{
			ID:            "wastewater",
			Label:         "Wastewater Treatment",
			Category:      "water",
			DilutionRatio: 5000,
			Icon:          "factory",
			Color:         "#607d8b",
			HowToUse:      "Dose at the inlet of the aeration basin.",
			Remarks:       "Adjust to measured inflow.",
			DilutionCopy:  "Dilute 5,000 times (Stock) or 500 times (1:10).",
		},
	}
}
