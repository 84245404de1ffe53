// Package agronomy holds the fixed agronomic facts for the Maharashtra soil
// advisory pipeline: the parameter enumeration, the categorization threshold
// table, plausibility bounds, season crop lists, fertility rules, and the
// bilingual disclaimers. Everything here is pure data and pure functions; no
// I/O and no AI involvement.
package agronomy

import "strings"

// Parameter is one of the fixed soil parameters the pipeline understands.
type Parameter string

const (
	ParamPH            Parameter = "pH"
	ParamNitrogen      Parameter = "Nitrogen"
	ParamPhosphorus    Parameter = "Phosphorus"
	ParamPotassium     Parameter = "Potassium"
	ParamOrganicCarbon Parameter = "Organic Carbon"
)

// Parameters lists every parameter in canonical report order.
var Parameters = []Parameter{
	ParamPH,
	ParamNitrogen,
	ParamPhosphorus,
	ParamPotassium,
	ParamOrganicCarbon,
}

// paramAliases maps normalized alias spellings to the canonical parameter.
// Lab reports and AI output use several of these interchangeably.
var paramAliases = map[string]Parameter{
	"ph":             ParamPH,
	"soil reaction":  ParamPH,
	"n":              ParamNitrogen,
	"nitrogen":       ParamNitrogen,
	"p":              ParamPhosphorus,
	"phosphorus":     ParamPhosphorus,
	"k":              ParamPotassium,
	"potassium":      ParamPotassium,
	"oc":             ParamOrganicCarbon,
	"organic carbon": ParamOrganicCarbon,
	"organic_carbon": ParamOrganicCarbon,
	"organiccarbon":  ParamOrganicCarbon,
}

// ParseParameter resolves a raw parameter name, including the aliases used by
// lab reports ("Soil Reaction", "OC") and by AI output ("Organic_Carbon").
func ParseParameter(name string) (Parameter, bool) {
	p, ok := paramAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Unit returns the canonical unit for a parameter. pH is dimensionless.
func (p Parameter) Unit() string {
	switch p {
	case ParamPH:
		return ""
	case ParamOrganicCarbon:
		return "%"
	default:
		return "kg/ha"
	}
}

// Category is a discrete agronomic label derived from a numeric measurement
// via fixed thresholds, or inferred when no measurement exists.
type Category string

const (
	CategoryAcidic   Category = "Acidic"
	CategoryNeutral  Category = "Neutral"
	CategoryAlkaline Category = "Alkaline"

	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"

	CategoryPoor     Category = "Poor"
	CategoryModerate Category = "Moderate"
	CategoryRich     Category = "Rich"

	CategoryUnknown Category = "Unknown"
)

// Vocabulary returns the admissible categories for a parameter, excluding
// Unknown, which is valid for every parameter with no measurement.
func (p Parameter) Vocabulary() []Category {
	switch p {
	case ParamPH:
		return []Category{CategoryAcidic, CategoryNeutral, CategoryAlkaline}
	case ParamOrganicCarbon:
		return []Category{CategoryPoor, CategoryModerate, CategoryRich}
	default:
		return []Category{CategoryLow, CategoryMedium, CategoryHigh}
	}
}

// NormalizeCategory resolves a raw category string against a parameter's
// vocabulary, case-insensitively. "Medium" for Organic Carbon is accepted as
// a spelling of Moderate: the AI models drift between the two and the
// pipeline uses Moderate uniformly. Anything unresolvable is Unknown.
func NormalizeCategory(p Parameter, raw string) Category {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return CategoryUnknown
	}
	if p == ParamOrganicCarbon && s == "medium" {
		return CategoryModerate
	}
	for _, c := range p.Vocabulary() {
		if s == strings.ToLower(string(c)) {
			return c
		}
	}
	return CategoryUnknown
}
