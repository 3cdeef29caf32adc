package controllers

import (
	"github.com/gin-gonic/gin"

	"go-ionicdose/dilution"
	"go-ionicdose/models"
	"go-ionicdose/utils"
)

// DosageController 处理稀释用量计算相关的请求
type DosageController struct {
	Calc *dilution.Calculator
}

// NewDosageController 创建一个新的DosageController实例
func NewDosageController(calc *dilution.Calculator) *DosageController {
	return &DosageController{Calc: calc}
}

// GetProfiles 获取场景列表
func (c *DosageController) GetProfiles(ctx *gin.Context) {
	utils.Success(ctx, c.Calc.Profiles())
}

// Calculate 计算用量，支持 JSON 请求体
func (c *DosageController) Calculate(ctx *gin.Context) {
	var in models.DoseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	c.respondDose(ctx, in)
}

// CalculateQuery 计算用量，参数来自查询字符串
func (c *DosageController) CalculateQuery(ctx *gin.Context) {
	in := models.DoseInput{
		Volume:          dilution.Volume(dilution.ParseVolume(ctx.Query("volume"))),
		Unit:            ctx.Query("unit"),
		ApplicationID:   ctx.Query("applicationId"),
		ConcentrateMode: ctx.Query("concentrateMode"),
	}
	c.respondDose(ctx, in)
}

func (c *DosageController) respondDose(ctx *gin.Context, in models.DoseInput) {
	req, err := in.Request()
	if err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	utils.Success(ctx, BuildDoseResponse(c.Calc, req))
}

// BuildDoseResponse 计算并组装返回数据
func BuildDoseResponse(calc *dilution.Calculator, req dilution.DoseRequest) models.DoseResponse {
	profile := calc.Resolve(req.ApplicationID)
	// 未知 id 已回退到默认场景，返回实际使用的场景
	req.ApplicationID = profile.ID
	result := dilution.Dose(profile, req.Volume, req.Unit, req.Mode)
	return models.DoseResponse{
		Request:     req,
		Application: profile,
		Result:      result,
		Display:     dilution.NewDisplay(result),
		Summary:     dilution.Summary(req, profile, result),
	}
}

// GetReferenceTable 获取参考表，concentrateMode 选择显示的一列
func (c *DosageController) GetReferenceTable(ctx *gin.Context) {
	mode := dilution.UndilutedStock
	if s := ctx.Query("concentrateMode"); s != "" {
		m, ok := dilution.ParseMode(s)
		if !ok {
			utils.BadRequest(ctx, "unknown concentrateMode, expected Stock or 1:10")
			return
		}
		mode = m
	}

	utils.Success(ctx, gin.H{
		"concentrateMode": mode,
		"rows":            ReferenceTable(c.Calc, mode),
	})
}

// ReferenceTable 由计算器生成参考表视图
func ReferenceTable(calc *dilution.Calculator, mode dilution.Mode) []models.ReferenceRowView {
	rows := dilution.BuildReferenceTable(calc, dilution.CanonicalVolumesFor(calc))
	views := make([]models.ReferenceRowView, 0, len(rows))
	for _, row := range rows {
		p := calc.Resolve(row.ApplicationID)
		views = append(views, models.ReferenceRowView{
			ReferenceRow: row,
			Label:        p.Label,
			Ratio:        p.RatioLabel(),
			IconAsset:    dilution.IconAsset(p.Icon),
			Dose:         dilution.FormatMilliliters(row.DoseFor(mode)) + " mL",
		})
	}
	return views
}
