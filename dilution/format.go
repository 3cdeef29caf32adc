package dilution

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatNumber 保留至多 decimals 位小数并加千位分隔符
func FormatNumber(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	scale := math.Pow(10, float64(decimals))
	return humanize.Commaf(math.Round(f*scale) / scale)
}

// FormatMilliliters 毫升数保留至多 1 位小数
func FormatMilliliters(ml float64) string {
	return FormatNumber(ml, 1)
}

// FormatDrops 滴数取整，超出 int64 范围时退回浮点格式
func FormatDrops(drops float64) string {
	if math.IsNaN(drops) || math.IsInf(drops, 0) || drops < 0 {
		return "0"
	}
	if drops >= math.MaxInt64 {
		return FormatNumber(drops, 0)
	}
	return humanize.Comma(int64(math.Round(drops)))
}

// FormatVolume 水量保留至多 2 位小数
func FormatVolume(v float64) string {
	return FormatNumber(v, 2)
}

// Display 展示用的格式化结果
type Display struct {
	Milliliters string `json:"milliliters"`
	Drops       string `json:"drops"`
}

// NewDisplay 格式化计算结果
func NewDisplay(r DoseResult) Display {
	return Display{
		Milliliters: FormatMilliliters(r.DoseMilliliters),
		Drops:       FormatDrops(r.DoseDrops),
	}
}

// Summary 生成可复制的文字说明
func Summary(req DoseRequest, profile ApplicationProfile, r DoseResult) string {
	volume := req.Volume
	if ToLiters(volume, req.Unit) == 0 {
		volume = 0
	}
	return fmt.Sprintf("%s %s target for %s needs %s mL (%s drops) of %s.",
		FormatVolume(volume),
		req.Unit,
		profile.Label,
		FormatMilliliters(r.DoseMilliliters),
		FormatDrops(r.DoseDrops),
		req.Mode.Label(),
	)
}

const defaultIconAsset = "/static/icons/drop.svg"

var iconAssets = map[string]string{
	"leaf":    "/static/icons/leaf.svg",
	"glass":   "/static/icons/glass.svg",
	"sprout":  "/static/icons/sprout.svg",
	"spray":   "/static/icons/spray.svg",
	"cow":     "/static/icons/cow.svg",
	"tractor": "/static/icons/tractor.svg",
	"fish":    "/static/icons/fish.svg",
	"factory": "/static/icons/factory.svg",
}

// IconAsset 将图标标识解析为静态资源路径
func IconAsset(tag string) string {
	if a, ok := iconAssets[tag]; ok {
		return a
	}
	return defaultIconAsset
}
