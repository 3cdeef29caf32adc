package dilution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditCopy_DefaultProfilesClean(t *testing.T) {
	assert.Empty(t, AuditCopy(DefaultProfiles()))
}

func TestAuditCopy_FlagsUnderivableFigures(t *testing.T) {
	profiles := []ApplicationProfile{
		{ID: "wastewater", DilutionRatio: 5000, DilutionCopy: "Dilute 5,000 times (Stock) or 500 times (1:10)."},
		{ID: "spa", DilutionRatio: 2000, DilutionCopy: "Use 2000x (stock), or 100 times (1:10) for a stronger bath."},
		{ID: "silent", DilutionRatio: 300, DilutionCopy: "Mix well before use."},
	}

	got := AuditCopy(profiles)
	require.Len(t, got, 1)
	assert.Equal(t, "spa", got[0].ApplicationID)
	assert.Equal(t, RitualSolutionOneToTen, got[0].Mode)
	assert.Equal(t, 100.0, got[0].Stated)
	assert.Equal(t, 200.0, got[0].Expected)
	assert.Equal(t, "spa [1:10]: copy says 100 times, ratio implies 200 times", got[0].String())
}
