package agronomy

import (
	"github.com/farmchain/soiladvisor/pkg/errors"
)

// ThresholdConfidence is the confidence assigned to every threshold-derived
// category. Measured values are categorized deterministically; the constant
// exists so the enforcement pass and the tests agree on one number.
const ThresholdConfidence = 0.95

// nutrientBands holds the two boundary values splitting Low/Medium/High for
// the kg/ha nutrients, and Poor/Moderate/Rich for Organic Carbon. Values
// below lower are the low band, values in [lower, upper] the middle band,
// values above upper the high band. domainMax bounds the accepted input.
type nutrientBands struct {
	lower, upper float64
	domainMax    float64
	low          Category
	mid          Category
	high         Category
}

var thresholdTable = map[Parameter]nutrientBands{
	ParamNitrogen:      {200, 280, 100000, CategoryLow, CategoryMedium, CategoryHigh},
	ParamPhosphorus:    {10, 25, 100000, CategoryLow, CategoryMedium, CategoryHigh},
	ParamPotassium:     {110, 280, 100000, CategoryLow, CategoryMedium, CategoryHigh},
	ParamOrganicCarbon: {0.4, 0.75, 100, CategoryPoor, CategoryModerate, CategoryRich},
}

// CategorizePH categorizes a pH value. Boundaries are inclusive toward
// Neutral: 6.5 and 7.5 are both Neutral.
func CategorizePH(value float64) (Category, error) {
	if value < 0 || value > 14 {
		return CategoryUnknown, errors.Newf(errors.CodeValueOutOfRange,
			"pH %v outside the 0-14 domain", value)
	}
	switch {
	case value < 6.5:
		return CategoryAcidic, nil
	case value <= 7.5:
		return CategoryNeutral, nil
	default:
		return CategoryAlkaline, nil
	}
}

// Categorize converts a measured value into its category and confidence via
// the threshold table. It is a pure function: the same (parameter, value)
// pair yields the same category on every call.
//
// Errors carry CodeUnknownParameter or CodeValueOutOfRange; callers treat
// either as category Unknown with confidence 0.
func Categorize(p Parameter, value float64) (Category, float64, error) {
	if p == ParamPH {
		c, err := CategorizePH(value)
		if err != nil {
			return CategoryUnknown, 0, err
		}
		return c, ThresholdConfidence, nil
	}

	bands, ok := thresholdTable[p]
	if !ok {
		return CategoryUnknown, 0, errors.Newf(errors.CodeUnknownParameter,
			"no threshold table for parameter %q", p)
	}
	if value < 0 || value > bands.domainMax {
		return CategoryUnknown, 0, errors.Newf(errors.CodeValueOutOfRange,
			"%s value %v outside all defined bands", p, value)
	}
	switch {
	case value < bands.lower:
		return bands.low, ThresholdConfidence, nil
	case value <= bands.upper:
		return bands.mid, ThresholdConfidence, nil
	default:
		return bands.high, ThresholdConfidence, nil
	}
}

// PlausibleRange returns the sanity bounds used by the extractor to reject
// clearly-wrong OCR digits. These are deliberately wider than the category
// bands and narrower than "any number": a pH misread as Nitrogen (6.9 kg/ha)
// fails the Nitrogen floor of 10.
func PlausibleRange(p Parameter) (min, max float64) {
	switch p {
	case ParamPH:
		return 0, 14
	case ParamNitrogen:
		return 10, 500
	case ParamPhosphorus:
		return 1, 150
	case ParamPotassium:
		return 10, 1000
	case ParamOrganicCarbon:
		return 0.05, 10
	default:
		return 0, 0
	}
}

// Plausible reports whether value is within the extraction sanity bounds for
// the parameter.
func Plausible(p Parameter, value float64) bool {
	min, max := PlausibleRange(p)
	if min == 0 && max == 0 {
		return false
	}
	return value >= min && value <= max
}
