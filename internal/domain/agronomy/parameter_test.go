package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParameter_Aliases(t *testing.T) {
	cases := []struct {
		name string
		want Parameter
	}{
		{"pH", ParamPH},
		{"PH", ParamPH},
		{"Soil Reaction", ParamPH},
		{"n", ParamNitrogen},
		{"Nitrogen", ParamNitrogen},
		{"P", ParamPhosphorus},
		{"phosphorus", ParamPhosphorus},
		{"K", ParamPotassium},
		{"OC", ParamOrganicCarbon},
		{"Organic Carbon", ParamOrganicCarbon},
		{"Organic_Carbon", ParamOrganicCarbon},
		{"organiccarbon", ParamOrganicCarbon},
		{"  nitrogen  ", ParamNitrogen},
	}
	for _, tc := range cases {
		got, ok := ParseParameter(tc.name)
		assert.True(t, ok, "name %q", tc.name)
		assert.Equal(t, tc.want, got, "name %q", tc.name)
	}
}

func TestParseParameter_Unresolvable(t *testing.T) {
	for _, name := range []string{"", "sulphur", "EC", "moisture"} {
		_, ok := ParseParameter(name)
		assert.False(t, ok, "name %q", name)
	}
}

func TestParameterUnit(t *testing.T) {
	assert.Equal(t, "", ParamPH.Unit())
	assert.Equal(t, "%", ParamOrganicCarbon.Unit())
	assert.Equal(t, "kg/ha", ParamNitrogen.Unit())
	assert.Equal(t, "kg/ha", ParamPhosphorus.Unit())
	assert.Equal(t, "kg/ha", ParamPotassium.Unit())
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		param Parameter
		raw   string
		want  Category
	}{
		{ParamPH, "neutral", CategoryNeutral},
		{ParamPH, "ALKALINE", CategoryAlkaline},
		{ParamNitrogen, " low ", CategoryLow},
		{ParamOrganicCarbon, "Medium", CategoryModerate},
		{ParamOrganicCarbon, "moderate", CategoryModerate},
		{ParamOrganicCarbon, "rich", CategoryRich},
		{ParamNitrogen, "rich", CategoryUnknown},
		{ParamPH, "low", CategoryUnknown},
		{ParamPotassium, "", CategoryUnknown},
		{ParamPhosphorus, "very high", CategoryUnknown},
	}
	for _, tc := range cases {
		got := NormalizeCategory(tc.param, tc.raw)
		assert.Equal(t, tc.want, got, "%s %q", tc.param, tc.raw)
	}
}
