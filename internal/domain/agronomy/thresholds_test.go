package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmchain/soiladvisor/pkg/errors"
)

func TestCategorizePH_Boundaries(t *testing.T) {
	cases := []struct {
		value float64
		want  Category
	}{
		{6.4, CategoryAcidic},
		{6.5, CategoryNeutral},
		{6.9, CategoryNeutral},
		{7.0, CategoryNeutral},
		{7.5, CategoryNeutral},
		{7.6, CategoryAlkaline},
		{0, CategoryAcidic},
		{14, CategoryAlkaline},
	}
	for _, tc := range cases {
		got, err := CategorizePH(tc.value)
		require.NoError(t, err, "pH %v", tc.value)
		assert.Equal(t, tc.want, got, "pH %v", tc.value)
	}
}

func TestCategorizePH_OutOfDomain(t *testing.T) {
	_, err := CategorizePH(-0.1)
	assert.True(t, errors.IsCode(err, errors.CodeValueOutOfRange))

	_, err = CategorizePH(14.5)
	assert.True(t, errors.IsCode(err, errors.CodeValueOutOfRange))
}

func TestCategorize_NitrogenBoundaries(t *testing.T) {
	cases := []struct {
		value float64
		want  Category
	}{
		{199, CategoryLow},
		{200, CategoryMedium},
		{280, CategoryMedium},
		{281, CategoryHigh},
		{120, CategoryLow},
	}
	for _, tc := range cases {
		got, conf, err := Categorize(ParamNitrogen, tc.value)
		require.NoError(t, err, "N %v", tc.value)
		assert.Equal(t, tc.want, got, "N %v", tc.value)
		assert.Equal(t, ThresholdConfidence, conf)
	}
}

func TestCategorize_PhosphorusAndPotassium(t *testing.T) {
	got, _, err := Categorize(ParamPhosphorus, 9.5)
	require.NoError(t, err)
	assert.Equal(t, CategoryLow, got)

	got, _, err = Categorize(ParamPhosphorus, 25)
	require.NoError(t, err)
	assert.Equal(t, CategoryMedium, got)

	got, _, err = Categorize(ParamPhosphorus, 26)
	require.NoError(t, err)
	assert.Equal(t, CategoryHigh, got)

	got, _, err = Categorize(ParamPotassium, 109)
	require.NoError(t, err)
	assert.Equal(t, CategoryLow, got)

	got, _, err = Categorize(ParamPotassium, 110)
	require.NoError(t, err)
	assert.Equal(t, CategoryMedium, got)

	got, _, err = Categorize(ParamPotassium, 300)
	require.NoError(t, err)
	assert.Equal(t, CategoryHigh, got)
}

func TestCategorize_OrganicCarbon(t *testing.T) {
	got, _, err := Categorize(ParamOrganicCarbon, 0.39)
	require.NoError(t, err)
	assert.Equal(t, CategoryPoor, got)

	got, _, err = Categorize(ParamOrganicCarbon, 0.4)
	require.NoError(t, err)
	assert.Equal(t, CategoryModerate, got)

	got, _, err = Categorize(ParamOrganicCarbon, 0.75)
	require.NoError(t, err)
	assert.Equal(t, CategoryModerate, got)

	got, _, err = Categorize(ParamOrganicCarbon, 0.76)
	require.NoError(t, err)
	assert.Equal(t, CategoryRich, got)
}

// Categorize must be a pure function: repeated calls with the same input
// yield the same category.
func TestCategorize_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		got, _, err := Categorize(ParamNitrogen, 240)
		require.NoError(t, err)
		assert.Equal(t, CategoryMedium, got)
	}
}

func TestCategorize_UnknownParameter(t *testing.T) {
	got, conf, err := Categorize(Parameter("Magnesium"), 50)
	assert.Equal(t, CategoryUnknown, got)
	assert.Zero(t, conf)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownParameter))
}

func TestCategorize_OutOfRange(t *testing.T) {
	got, conf, err := Categorize(ParamNitrogen, -5)
	assert.Equal(t, CategoryUnknown, got)
	assert.Zero(t, conf)
	assert.True(t, errors.IsCode(err, errors.CodeValueOutOfRange))
}

func TestPlausible(t *testing.T) {
	assert.True(t, Plausible(ParamNitrogen, 120))
	// A pH-range digit misread into the Nitrogen column must be rejected.
	assert.False(t, Plausible(ParamNitrogen, 6.9))
	assert.False(t, Plausible(ParamNitrogen, 9000))
	assert.True(t, Plausible(ParamPH, 6.9))
	assert.True(t, Plausible(ParamOrganicCarbon, 0.6))
	assert.False(t, Plausible(Parameter("Magnesium"), 1))
}

func TestParseParameter(t *testing.T) {
	p, ok := ParseParameter("Soil Reaction")
	assert.True(t, ok)
	assert.Equal(t, ParamPH, p)

	p, ok = ParseParameter("organic_carbon")
	assert.True(t, ok)
	assert.Equal(t, ParamOrganicCarbon, p)

	p, ok = ParseParameter(" N ")
	assert.True(t, ok)
	assert.Equal(t, ParamNitrogen, p)

	_, ok = ParseParameter("Magnesium")
	assert.False(t, ok)
}

func TestNormalizeCategoryThresholds(t *testing.T) {
	assert.Equal(t, CategoryModerate, NormalizeCategory(ParamOrganicCarbon, "Medium"))
	assert.Equal(t, CategoryModerate, NormalizeCategory(ParamOrganicCarbon, "moderate"))
	assert.Equal(t, CategoryLow, NormalizeCategory(ParamNitrogen, "low"))
	assert.Equal(t, CategoryUnknown, NormalizeCategory(ParamNitrogen, "Poor"))
	assert.Equal(t, CategoryUnknown, NormalizeCategory(ParamPH, ""))
	assert.Equal(t, CategoryNeutral, NormalizeCategory(ParamPH, "NEUTRAL"))
}
