package models

import (
	"fmt"
	"time"

	"go-ionicdose/dilution"
)

// DoseRecord 用户保存的用量计算记录
type DoseRecord struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int       `db:"user_id" json:"user_id"`
	ShareCode       string    `db:"share_code" json:"shareCode"`
	Volume          float64   `db:"volume" json:"volume"`
	Unit            string    `db:"unit" json:"unit"`
	ApplicationID   string    `db:"application_id" json:"applicationId"`
	ConcentrateMode string    `db:"concentrate_mode" json:"concentrateMode"`
	DoseMilliliters float64   `db:"dose_ml" json:"doseMilliliters"`
	DoseDrops       float64   `db:"dose_drops" json:"doseDrops"`
	Summary         string    `db:"summary" json:"summary"`
	Note            string    `db:"note" json:"note"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DoseInput 计算请求，volume 可以是数字或字符串
type DoseInput struct {
	Volume          dilution.Volume `json:"volume"`
	Unit            string          `json:"unit" form:"unit"`
	ApplicationID   string          `json:"applicationId" form:"applicationId"`
	ConcentrateMode string          `json:"concentrateMode" form:"concentrateMode"`
}

// Request 转换为计算器输入，未填写的单位和模式取默认值
func (in DoseInput) Request() (dilution.DoseRequest, error) {
	req := dilution.DoseRequest{
		Volume:        float64(in.Volume),
		Unit:          dilution.Liter,
		ApplicationID: in.ApplicationID,
		Mode:          dilution.UndilutedStock,
	}
	if in.Unit != "" {
		unit, ok := dilution.ParseUnit(in.Unit)
		if !ok {
			return req, fmt.Errorf("unknown unit %q, expected L or Gal", in.Unit)
		}
		req.Unit = unit
	}
	if in.ConcentrateMode != "" {
		mode, ok := dilution.ParseMode(in.ConcentrateMode)
		if !ok {
			return req, fmt.Errorf("unknown concentrateMode %q, expected Stock or 1:10", in.ConcentrateMode)
		}
		req.Mode = mode
	}
	return req, nil
}

// SaveDoseRecordRequest 保存记录请求，用量由服务端重新计算
type SaveDoseRecordRequest struct {
	DoseInput
	Note string `json:"note" binding:"max=255"`
}

// DoseResponse 计算接口返回的数据
type DoseResponse struct {
	Request     dilution.DoseRequest        `json:"request"`
	Application dilution.ApplicationProfile `json:"application"`
	Result      dilution.DoseResult         `json:"result"`
	Display     dilution.Display            `json:"display"`
	Summary     string                      `json:"summary"`
}

// ReferenceRowView 参考表中的一行（按当前模式选中一列）
type ReferenceRowView struct {
	dilution.ReferenceRow
	Label     string `json:"label"`
	Ratio     string `json:"ratio"`
	IconAsset string `json:"iconAsset"`
	Dose      string `json:"dose"`
}
