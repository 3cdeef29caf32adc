package dilution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMilliliters(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1.04, "1"},
		{1.25, "1.3"},
		{3.78541, "3.8"},
		{1000, "1,000"},
		{12345.67, "12,345.7"},
		{math.NaN(), "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMilliliters(tt.in), "%v", tt.in)
	}
}

func TestFormatDrops(t *testing.T) {
	assert.Equal(t, "20", FormatDrops(20))
	assert.Equal(t, "76", FormatDrops(75.7))
	assert.Equal(t, "200,000", FormatDrops(200000))
	assert.Equal(t, "0", FormatDrops(math.Inf(1)))
	assert.Equal(t, "0", FormatDrops(math.NaN()))
	assert.Equal(t, "0", FormatDrops(-5))
	assert.NotContains(t, FormatDrops(1e20), "-")
}

func TestSummary(t *testing.T) {
	c := newTestCalculator(t)

	req := DoseRequest{Volume: 2500, Unit: Liter, ApplicationID: "agriculture", Mode: UndilutedStock}
	p := c.Resolve(req.ApplicationID)
	got := Summary(req, p, c.Compute(req))
	assert.Equal(t, "2,500 L target for Agriculture needs 1,000 mL (20,000 drops) of Undiluted Stock.", got)

	req = DoseRequest{Volume: 1, Unit: Gallon, ApplicationID: "house", Mode: RitualSolutionOneToTen}
	got = Summary(req, c.Resolve(req.ApplicationID), c.Compute(req))
	assert.Equal(t, "1 Gal target for Houseplants & Home Garden needs 37.9 mL (757 drops) of 1:10 Ritual Solution.", got)

	req = DoseRequest{Volume: -2, Unit: Liter, ApplicationID: "house"}
	got = Summary(req, c.Resolve(req.ApplicationID), c.Compute(req))
	assert.Equal(t, "0 L target for Houseplants & Home Garden needs 0 mL (0 drops) of Undiluted Stock.", got)
}

func TestNewDisplay(t *testing.T) {
	d := NewDisplay(DoseResult{DoseMilliliters: 0.16, DoseDrops: 3})
	assert.Equal(t, Display{Milliliters: "0.2", Drops: "3"}, d)
}

func TestIconAsset(t *testing.T) {
	for _, p := range DefaultProfiles() {
		assert.NotEqual(t, defaultIconAsset, IconAsset(p.Icon), p.ID)
	}
	assert.Equal(t, defaultIconAsset, IconAsset("unicorn"))
}
